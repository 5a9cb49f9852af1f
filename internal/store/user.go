package store

import (
	"context"
	"database/sql"

	"github.com/choosemycollege/cmc-core/internal/domain"
)

// UserStore defines the interface for account persistence.
type UserStore interface {
	// Create saves a new account to the store.
	// Returns ErrUsernameExists if the username is already taken.
	// Returns validation errors from the domain Account if data is invalid.
	Create(ctx context.Context, account *domain.Account) error

	// GetByUsername retrieves an account by its username.
	// Returns ErrUserNotFound if the account does not exist.
	// Returns ErrCorruptRecord if the stored record cannot be decoded.
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)

	// GetAll retrieves every account in the store, ordered by username.
	GetAll(ctx context.Context) ([]*domain.Account, error)

	// Update writes a complete account record back to the store. Callers
	// must fetch the current record first and merge changes into it; the
	// store always writes every field (merge-then-write semantics).
	// Returns ErrUserNotFound if the account does not exist.
	Update(ctx context.Context, account *domain.Account) error

	// Delete removes an account by username.
	// Returns ErrUserNotFound if the account does not exist. Saved-school
	// associations are NOT removed here; the service cascades them inside
	// the same transaction.
	Delete(ctx context.Context, username string) error

	// WithTx returns a UserStore that uses the provided transaction,
	// allowing multiple operations in a single atomic unit.
	WithTx(tx *sql.Tx) UserStore
}
