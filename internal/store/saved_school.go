package store

import (
	"context"
	"database/sql"

	"github.com/choosemycollege/cmc-core/internal/domain"
)

// SavedSchoolStore defines the interface for the account/university
// saved-school join relation.
type SavedSchoolStore interface {
	// Save records a saved-school association.
	// Returns ErrSavedSchoolExists if the pair is already saved.
	Save(ctx context.Context, s *domain.SavedSchool) error

	// ListByUser returns the associations for one user, oldest first.
	ListByUser(ctx context.Context, username string) ([]*domain.SavedSchool, error)

	// Remove deletes one association by pair.
	// Returns ErrSavedSchoolNotFound if the pair is not saved.
	Remove(ctx context.Context, username, schoolName string) error

	// RemoveAllForUser deletes every association for a user. Removing zero
	// rows is not an error.
	RemoveAllForUser(ctx context.Context, username string) error

	// AllByUser returns the full relation as a username -> school names
	// map. Users with no saved schools are absent from the map.
	AllByUser(ctx context.Context) (map[string][]string, error)

	// WithTx returns a SavedSchoolStore that uses the provided transaction.
	WithTx(tx *sql.Tx) SavedSchoolStore
}
