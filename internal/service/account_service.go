package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/choosemycollege/cmc-core/internal/domain"
	"github.com/choosemycollege/cmc-core/internal/service/auth"
	"github.com/choosemycollege/cmc-core/internal/store"
)

// AccountService handles all operations related to accounts: authentication,
// user administration, and the saved-school list. It holds no state between
// calls beyond its collaborators.
type AccountService struct {
	users  store.UserStore
	saved  store.SavedSchoolStore
	runTx  store.TxRunner
	hasher auth.PasswordHasher
	logger *slog.Logger
}

// AccountUpdate describes a partial profile update. A nil field keeps the
// stored value (merge-then-write semantics; the store always rewrites the
// full record).
type AccountUpdate struct {
	FirstName *string
	LastName  *string
	Password  *string
}

// NewAccountService creates a new AccountService.
func NewAccountService(
	users store.UserStore,
	saved store.SavedSchoolStore,
	runTx store.TxRunner,
	hasher auth.PasswordHasher,
	logger *slog.Logger,
) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		users:  users,
		saved:  saved,
		runTx:  runTx,
		hasher: hasher,
		logger: logger.With(slog.String("component", "account_service")),
	}
}

// Login authenticates a username/password pair. Success requires an existing
// account, an active flag, and a matching password; every failure mode
// collapses into ErrNoMatch so callers cannot probe which part failed. A
// record that cannot be decoded (store.ErrCorruptRecord) is surfaced as-is:
// that is a data-integrity failure, not a failed login.
func (s *AccountService) Login(ctx context.Context, username, password string) (*domain.Account, error) {
	account, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("login failed: unknown username",
				slog.String("username", username))
			return nil, ErrNoMatch
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if !account.Active {
		s.logger.Debug("login failed: account deactivated",
			slog.String("username", username))
		return nil, ErrNoMatch
	}

	if err := s.hasher.Compare(account.HashedPassword, password); err != nil {
		s.logger.Debug("login failed: password mismatch",
			slog.String("username", username))
		return nil, ErrNoMatch
	}

	s.logger.Info("login succeeded",
		slog.String("username", username),
		slog.Bool("admin", account.IsAdmin()))
	return account, nil
}

// AddUser creates a new account with the given details. The password is
// hashed before it reaches the store. Returns store.ErrUsernameExists if the
// username is already taken.
func (s *AccountService) AddUser(ctx context.Context, username, password, firstName, lastName string, isAdmin bool) (*domain.Account, error) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := domain.RoleUser
	if isAdmin {
		role = domain.RoleAdmin
	}
	account, err := domain.NewAccount(username, firstName, lastName, hashed, role)
	if err != nil {
		return nil, err
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.users.WithTx(tx).Create(ctx, account)
	})
	if err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			s.logger.Debug("attempted to add user with existing username",
				slog.String("username", username))
		} else {
			s.logger.Error("failed to add user",
				slog.String("error", err.Error()),
				slog.String("username", username))
		}
		return nil, fmt.Errorf("failed to add user: %w", err)
	}
	return account, nil
}

// RemoveUser deletes an account and cascades its saved-school associations.
// Both deletes happen in one transaction, so a partial cascade cannot
// survive a failure. Returns store.ErrUserNotFound when the account does not
// exist; the store cannot distinguish that from other delete failures any
// further (see DESIGN.md).
func (s *AccountService) RemoveUser(ctx context.Context, username string) error {
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.saved.WithTx(tx).RemoveAllForUser(ctx, username); err != nil {
			return fmt.Errorf("failed to remove saved schools: %w", err)
		}
		return s.users.WithTx(tx).Delete(ctx, username)
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("attempted to remove unknown user",
				slog.String("username", username))
		} else {
			s.logger.Error("failed to remove user",
				slog.String("error", err.Error()),
				slog.String("username", username))
		}
		return err
	}

	s.logger.Info("user removed", slog.String("username", username))
	return nil
}

// setActive flips the active flag via read-merge-write inside one
// transaction. Reports false (not an error) when the account is absent.
func (s *AccountService) setActive(ctx context.Context, username string, active bool) (bool, error) {
	found := false
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txUsers := s.users.WithTx(tx)
		account, err := txUsers.GetByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return nil
			}
			return err
		}
		found = true
		account.Active = active
		account.UpdatedAt = time.Now().UTC()
		return txUsers.Update(ctx, account)
	})
	if err != nil {
		return false, fmt.Errorf("failed to change account status: %w", err)
	}
	return found, nil
}

// DeactivateUser marks an account inactive, leaving every other field
// untouched. Reports false when the account does not exist.
func (s *AccountService) DeactivateUser(ctx context.Context, username string) (bool, error) {
	ok, err := s.setActive(ctx, username, false)
	if err == nil && ok {
		s.logger.Info("user deactivated", slog.String("username", username))
	}
	return ok, err
}

// ActivateUser marks an account active again. Reports false when the
// account does not exist.
func (s *AccountService) ActivateUser(ctx context.Context, username string) (bool, error) {
	ok, err := s.setActive(ctx, username, true)
	if err == nil && ok {
		s.logger.Info("user activated", slog.String("username", username))
	}
	return ok, err
}

// UpdateUser applies a partial profile update: fields left nil keep their
// stored values. Reports false when the account does not exist.
func (s *AccountService) UpdateUser(ctx context.Context, username string, update AccountUpdate) (bool, error) {
	found := false
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txUsers := s.users.WithTx(tx)
		account, err := txUsers.GetByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return nil
			}
			return err
		}
		found = true

		if update.FirstName != nil {
			account.FirstName = *update.FirstName
		}
		if update.LastName != nil {
			account.LastName = *update.LastName
		}
		if update.Password != nil {
			hashed, err := s.hasher.Hash(*update.Password)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			account.HashedPassword = hashed
		}
		account.UpdatedAt = time.Now().UTC()
		return txUsers.Update(ctx, account)
	})
	if err != nil {
		s.logger.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("username", username))
		return false, fmt.Errorf("failed to update user: %w", err)
	}
	if found {
		s.logger.Info("user updated", slog.String("username", username))
	}
	return found, nil
}

// GetUser retrieves a single account by username.
func (s *AccountService) GetUser(ctx context.Context, username string) (*domain.Account, error) {
	return s.users.GetByUsername(ctx, username)
}

// GetAllUsers retrieves every account, ordered by username.
func (s *AccountService) GetAllUsers(ctx context.Context) ([]*domain.Account, error) {
	return s.users.GetAll(ctx)
}

// SaveSchool adds a school to a user's saved list. Reports (false, nil) if
// the pair is already saved, including when a concurrent save wins the race:
// a duplicate is a no-op, never a fatal error.
func (s *AccountService) SaveSchool(ctx context.Context, username, schoolName string) (bool, error) {
	savedNow := false
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txSaved := s.saved.WithTx(tx)

		existing, err := txSaved.ListByUser(ctx, username)
		if err != nil {
			return fmt.Errorf("failed to list saved schools: %w", err)
		}
		for _, sch := range existing {
			if sch.SchoolName == schoolName {
				return nil
			}
		}

		record, err := domain.NewSavedSchool(username, schoolName)
		if err != nil {
			return err
		}
		if err := txSaved.Save(ctx, record); err != nil {
			if errors.Is(err, store.ErrSavedSchoolExists) {
				return nil
			}
			return err
		}
		savedNow = true
		return nil
	})
	if err != nil {
		s.logger.Error("failed to save school",
			slog.String("error", err.Error()),
			slog.String("username", username),
			slog.String("school", schoolName))
		return false, fmt.Errorf("failed to save school: %w", err)
	}
	return savedNow, nil
}

// SavedSchools returns the names of the schools a user has saved, oldest
// save first.
func (s *AccountService) SavedSchools(ctx context.Context, username string) ([]string, error) {
	records, err := s.saved.ListByUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved schools: %w", err)
	}
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.SchoolName)
	}
	return names, nil
}

// SavedSchoolMap returns the full saved-school relation as a
// username -> school names map.
func (s *AccountService) SavedSchoolMap(ctx context.Context) (map[string][]string, error) {
	return s.saved.AllByUser(ctx)
}
