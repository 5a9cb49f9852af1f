package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/choosemycollege/cmc-core/internal/domain"
	"github.com/choosemycollege/cmc-core/internal/service"
	"github.com/choosemycollege/cmc-core/internal/store"
)

// adminMenu is the menu for a logged-in admin.
func (c *Console) adminMenu(ctx context.Context, account *domain.Account) {
	for {
		c.printf("\n--- Admin Menu (%s) ---\n", account.Username)
		c.printf("1) Manage users\n")
		c.printf("2) Manage universities\n")
		c.printf("3) Saved schools by user\n")
		c.printf("0) Log out\n")

		choice, ok := c.prompt("> ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			c.userAdminMenu(ctx)
		case "2":
			c.universityAdminMenu(ctx)
		case "3":
			c.listSavedSchoolMap(ctx)
		case "0":
			return
		default:
			c.printf("Unknown option %q.\n", choice)
		}
	}
}

// userAdminMenu handles account administration.
func (c *Console) userAdminMenu(ctx context.Context) {
	for {
		c.printf("\n--- User Management ---\n")
		c.printf("1) List users\n")
		c.printf("2) Add user\n")
		c.printf("3) Edit user\n")
		c.printf("4) Deactivate user\n")
		c.printf("5) Activate user\n")
		c.printf("6) Remove user\n")
		c.printf("0) Back\n")

		choice, ok := c.prompt("> ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			c.listUsers(ctx)
		case "2":
			c.addUser(ctx)
		case "3":
			c.editUser(ctx)
		case "4":
			c.setUserActive(ctx, false)
		case "5":
			c.setUserActive(ctx, true)
		case "6":
			c.removeUser(ctx)
		case "0":
			return
		default:
			c.printf("Unknown option %q.\n", choice)
		}
	}
}

func (c *Console) listUsers(ctx context.Context) {
	accounts, err := c.accounts.GetAllUsers(ctx)
	if err != nil {
		c.printf("Listing failed: %v\n", err)
		return
	}
	for _, a := range accounts {
		status := "active"
		if !a.Active {
			status = "inactive"
		}
		role := "user"
		if a.IsAdmin() {
			role = "admin"
		}
		c.printf("  %s  %s %s  [%s, %s]\n", a.Username, a.FirstName, a.LastName, role, status)
	}
	c.printf("%d users.\n", len(accounts))
}

func (c *Console) addUser(ctx context.Context) {
	username, ok := c.prompt("Username: ")
	if !ok {
		return
	}
	password, ok := c.prompt("Password: ")
	if !ok {
		return
	}
	firstName, ok := c.prompt("First name: ")
	if !ok {
		return
	}
	lastName, ok := c.prompt("Last name: ")
	if !ok {
		return
	}
	adminAnswer, ok := c.prompt("Admin? (y/N): ")
	if !ok {
		return
	}
	isAdmin := strings.EqualFold(adminAnswer, "y")

	if _, err := c.accounts.AddUser(ctx, username, password, firstName, lastName, isAdmin); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			c.printf("Username %s is already taken.\n", username)
			return
		}
		c.printf("Add failed: %v\n", err)
		return
	}
	c.printf("User %s added.\n", username)
}

// editUser applies a partial profile update; blank answers keep the stored
// values.
func (c *Console) editUser(ctx context.Context) {
	username, ok := c.prompt("Username: ")
	if !ok {
		return
	}

	var update service.AccountUpdate
	if firstName, ok := c.prompt("New first name (blank keeps current): "); !ok {
		return
	} else if firstName != "" {
		update.FirstName = &firstName
	}
	if lastName, ok := c.prompt("New last name (blank keeps current): "); !ok {
		return
	} else if lastName != "" {
		update.LastName = &lastName
	}
	if password, ok := c.prompt("New password (blank keeps current): "); !ok {
		return
	} else if password != "" {
		update.Password = &password
	}

	found, err := c.accounts.UpdateUser(ctx, username, update)
	if err != nil {
		c.printf("Update failed: %v\n", err)
		return
	}
	if !found {
		c.printf("User %s not found.\n", username)
		return
	}
	c.printf("User %s updated.\n", username)
}

func (c *Console) setUserActive(ctx context.Context, active bool) {
	username, ok := c.prompt("Username: ")
	if !ok {
		return
	}

	var found bool
	var err error
	if active {
		found, err = c.accounts.ActivateUser(ctx, username)
	} else {
		found, err = c.accounts.DeactivateUser(ctx, username)
	}
	if err != nil {
		c.printf("Status change failed: %v\n", err)
		return
	}
	if !found {
		c.printf("User %s not found.\n", username)
		return
	}
	if active {
		c.printf("User %s activated.\n", username)
	} else {
		c.printf("User %s deactivated.\n", username)
	}
}

func (c *Console) removeUser(ctx context.Context) {
	username, ok := c.prompt("Username: ")
	if !ok {
		return
	}

	if err := c.accounts.RemoveUser(ctx, username); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			c.printf("User %s not found.\n", username)
			return
		}
		c.printf("Remove failed: %v\n", err)
		return
	}
	c.printf("User %s removed.\n", username)
}

// listSavedSchoolMap prints the full saved-school relation.
func (c *Console) listSavedSchoolMap(ctx context.Context) {
	byUser, err := c.accounts.SavedSchoolMap(ctx)
	if err != nil {
		c.printf("Listing failed: %v\n", err)
		return
	}
	if len(byUser) == 0 {
		c.printf("No saved schools.\n")
		return
	}
	for username, schools := range byUser {
		c.printf("  %s: %s\n", username, strings.Join(schools, ", "))
	}
}
