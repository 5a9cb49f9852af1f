// Package cli implements the interactive console: looping numeric menus
// over standard input. It is thin glue; every decision is delegated to the
// services.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/choosemycollege/cmc-core/internal/domain"
	"github.com/choosemycollege/cmc-core/internal/service"
	"github.com/choosemycollege/cmc-core/internal/store"
)

// Console runs the interactive menus over an account service and a
// university service.
type Console struct {
	accounts     *service.AccountService
	universities *service.UniversityService
	in           *bufio.Scanner
	out          io.Writer
	logger       *slog.Logger
}

// New creates a Console reading from in and writing to out.
func New(
	accounts *service.AccountService,
	universities *service.UniversityService,
	in io.Reader,
	out io.Writer,
	logger *slog.Logger,
) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{
		accounts:     accounts,
		universities: universities,
		in:           bufio.NewScanner(in),
		out:          out,
		logger:       logger.With(slog.String("component", "console")),
	}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// prompt prints a label and reads one trimmed line. The second return is
// false on EOF, which cancels the current flow.
func (c *Console) prompt(label string) (string, bool) {
	c.printf("%s", label)
	if !c.in.Scan() {
		c.printf("\n")
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

// promptInt reads an integer, mapping a blank line onto the unknown
// sentinel. Invalid input reprompts.
func (c *Console) promptInt(label string) (int, bool) {
	for {
		line, ok := c.prompt(label)
		if !ok {
			return 0, false
		}
		if line == "" {
			return domain.Unknown, true
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			c.printf("Please enter a whole number or leave blank.\n")
			continue
		}
		return n, true
	}
}

// promptFloat reads a number, mapping a blank line onto the unknown
// sentinel. Invalid input reprompts.
func (c *Console) promptFloat(label string) (float64, bool) {
	for {
		line, ok := c.prompt(label)
		if !ok {
			return 0, false
		}
		if line == "" {
			return domain.Unknown, true
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			c.printf("Please enter a number or leave blank.\n")
			continue
		}
		return v, true
	}
}

// Run starts the top-level menu loop and blocks until the user quits or
// input reaches EOF.
func (c *Console) Run(ctx context.Context) error {
	for {
		c.printf("\n--- Choose My College ---\n")
		c.printf("1) Log in\n")
		c.printf("2) Search universities by state\n")
		c.printf("3) View university details\n")
		c.printf("0) Quit\n")

		choice, ok := c.prompt("> ")
		if !ok {
			return nil
		}
		switch choice {
		case "1":
			c.login(ctx)
		case "2":
			c.searchByState(ctx)
		case "3":
			c.viewDetails(ctx)
		case "0":
			c.printf("Goodbye.\n")
			return nil
		default:
			c.printf("Unknown option %q.\n", choice)
		}
	}
}

// login authenticates and dispatches to the role-specific menu.
func (c *Console) login(ctx context.Context) {
	username, ok := c.prompt("Username: ")
	if !ok {
		return
	}
	password, ok := c.prompt("Password: ")
	if !ok {
		return
	}

	account, err := c.accounts.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, service.ErrNoMatch) {
			c.printf("Login failed.\n")
			return
		}
		c.printf("Login error: %v\n", err)
		return
	}

	c.printf("Welcome, %s %s.\n", account.FirstName, account.LastName)
	if account.IsAdmin() {
		c.adminMenu(ctx, account)
	} else {
		c.userMenu(ctx, account)
	}
}

// userMenu is the menu for a logged-in regular user.
func (c *Console) userMenu(ctx context.Context, account *domain.Account) {
	for {
		c.printf("\n--- Menu (%s) ---\n", account.Username)
		c.printf("1) Search universities by state\n")
		c.printf("2) View university details\n")
		c.printf("3) Save a school\n")
		c.printf("4) My saved schools\n")
		c.printf("0) Log out\n")

		choice, ok := c.prompt("> ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			c.searchByState(ctx)
		case "2":
			c.viewDetails(ctx)
		case "3":
			c.saveSchool(ctx, account.Username)
		case "4":
			c.listSavedSchools(ctx, account.Username)
		case "0":
			return
		default:
			c.printf("Unknown option %q.\n", choice)
		}
	}
}

// searchByState runs the single-field search: exact state match, blank for
// every university.
func (c *Console) searchByState(ctx context.Context) {
	state, ok := c.prompt("State (blank for all): ")
	if !ok {
		return
	}

	matched, err := c.universities.SearchByState(ctx, state)
	if err != nil {
		c.printf("Search failed: %v\n", err)
		return
	}
	if len(matched) == 0 {
		c.printf("No universities found.\n")
		return
	}
	for _, u := range matched {
		c.printf("  %s (%s)\n", u.Name(), u.State())
	}
	c.printf("%d universities found.\n", len(matched))
}

// viewDetails prints the full record of one university.
func (c *Console) viewDetails(ctx context.Context) {
	name, ok := c.prompt("University name: ")
	if !ok {
		return
	}

	details, err := c.universities.Details(ctx, name)
	if err != nil {
		c.printf("Lookup failed: %v\n", err)
		return
	}
	c.printf("%s\n", details)
}

// saveSchool adds a university to the user's saved list. Saving a school
// twice is reported, not treated as a failure.
func (c *Console) saveSchool(ctx context.Context, username string) {
	name, ok := c.prompt("University name: ")
	if !ok {
		return
	}

	u, err := c.universities.Find(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrUniversityNotFound) {
			c.printf("%s is not found in the database.\n", strings.ToUpper(strings.TrimSpace(name)))
			return
		}
		c.printf("Lookup failed: %v\n", err)
		return
	}

	savedNow, err := c.accounts.SaveSchool(ctx, username, u.Name())
	if err != nil {
		c.printf("Save failed: %v\n", err)
		return
	}
	if savedNow {
		c.printf("%s saved.\n", u.Name())
	} else {
		c.printf("%s is already in your saved schools.\n", u.Name())
	}
}

// listSavedSchools prints the user's saved schools, oldest first.
func (c *Console) listSavedSchools(ctx context.Context, username string) {
	names, err := c.accounts.SavedSchools(ctx, username)
	if err != nil {
		c.printf("Listing failed: %v\n", err)
		return
	}
	if len(names) == 0 {
		c.printf("You have no saved schools.\n")
		return
	}
	for _, name := range names {
		c.printf("  %s\n", name)
	}
}
