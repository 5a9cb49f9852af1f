package store

import (
	"context"
	"database/sql"

	"github.com/choosemycollege/cmc-core/internal/domain"
)

// UniversityStore defines the interface for university persistence,
// including the many-to-many emphasis relation. The store's emphasis
// relation is the source of truth; the in-memory snapshot carried by a
// domain.University must never drive deletes.
type UniversityStore interface {
	// Create saves a new university's scalar record together with its
	// emphasis associations. Run inside a transaction, the two writes are
	// a single atomic unit.
	// Returns ErrUniversityExists if the name is already taken.
	Create(ctx context.Context, u *domain.University) error

	// GetByName retrieves one university with its emphases joined in.
	// Returns ErrUniversityNotFound if it does not exist.
	GetByName(ctx context.Context, name string) (*domain.University, error)

	// GetAll retrieves every university with emphases joined in, ordered
	// by name.
	GetAll(ctx context.Context) ([]*domain.University, error)

	// Update writes the scalar fields of an existing university. The
	// emphasis relation is maintained separately via AddEmphasis and
	// RemoveEmphasis.
	// Returns ErrUniversityNotFound if it does not exist.
	Update(ctx context.Context, u *domain.University) error

	// Delete removes a university's scalar record by name. Emphasis
	// associations must be removed first (the service reconciles against
	// ListEmphases inside the same transaction).
	// Returns ErrUniversityNotFound if it does not exist.
	Delete(ctx context.Context, name string) error

	// ListEmphases returns the authoritative emphasis set for a university.
	// A university with no emphases yields an empty slice, not an error.
	ListEmphases(ctx context.Context, name string) ([]string, error)

	// AddEmphasis attaches a tag to a university.
	// Returns ErrDuplicate if the association already exists.
	AddEmphasis(ctx context.Context, name, tag string) error

	// RemoveEmphasis detaches a tag from a university.
	// Returns ErrNotFound if the association does not exist.
	RemoveEmphasis(ctx context.Context, name, tag string) error

	// ListAllEmphases returns every distinct emphasis tag in the store.
	ListAllEmphases(ctx context.Context) ([]string, error)

	// WithTx returns a UniversityStore that uses the provided transaction.
	WithTx(tx *sql.Tx) UniversityStore
}
