package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/choosemycollege/cmc-core/internal/domain"
	"github.com/choosemycollege/cmc-core/internal/platform/logger"
	"github.com/choosemycollege/cmc-core/internal/store"
)

// PostgresSavedSchoolStore implements the store.SavedSchoolStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSavedSchoolStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSavedSchoolStore creates a new PostgreSQL implementation of the
// SavedSchoolStore interface. If logger is nil, a default logger will be used.
func NewPostgresSavedSchoolStore(db store.DBTX, logger *slog.Logger) *PostgresSavedSchoolStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresSavedSchoolStore{
		db:     db,
		logger: logger.With(slog.String("component", "saved_school_store")),
	}
}

// Ensure PostgresSavedSchoolStore implements store.SavedSchoolStore interface
var _ store.SavedSchoolStore = (*PostgresSavedSchoolStore)(nil)

// WithTx implements store.SavedSchoolStore.WithTx
func (s *PostgresSavedSchoolStore) WithTx(tx *sql.Tx) store.SavedSchoolStore {
	return &PostgresSavedSchoolStore{db: tx, logger: s.logger}
}

// Save implements store.SavedSchoolStore.Save
func (s *PostgresSavedSchoolStore) Save(ctx context.Context, saved *domain.SavedSchool) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := saved.Validate(); err != nil {
		log.Warn("saved school validation failed",
			slog.String("error", err.Error()),
			slog.String("username", saved.Username))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saved_schools (id, username, school_name, saved_at)
		VALUES ($1, $2, $3, $4)
	`, saved.ID, saved.Username, saved.SchoolName, saved.SavedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("saved school already present",
				slog.String("username", saved.Username),
				slog.String("school", saved.SchoolName))
			return MapUniqueViolation(err, store.ErrSavedSchoolExists)
		}
		log.Error("failed to save school",
			slog.String("error", err.Error()),
			slog.String("username", saved.Username),
			slog.String("school", saved.SchoolName))
		return MapError(err)
	}

	log.Info("school saved",
		slog.String("username", saved.Username),
		slog.String("school", saved.SchoolName))
	return nil
}

// ListByUser implements store.SavedSchoolStore.ListByUser
func (s *PostgresSavedSchoolStore) ListByUser(ctx context.Context, username string) ([]*domain.SavedSchool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, school_name, saved_at
		FROM saved_schools
		WHERE username = $1
		ORDER BY saved_at
	`, username)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var saved []*domain.SavedSchool
	for rows.Next() {
		var s domain.SavedSchool
		if err := rows.Scan(&s.ID, &s.Username, &s.SchoolName, &s.SavedAt); err != nil {
			return nil, MapError(err)
		}
		saved = append(saved, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return saved, nil
}

// Remove implements store.SavedSchoolStore.Remove
func (s *PostgresSavedSchoolStore) Remove(ctx context.Context, username, schoolName string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM saved_schools
		WHERE username = $1 AND school_name = $2
	`, username, schoolName)
	if err != nil {
		log.Error("failed to remove saved school",
			slog.String("error", err.Error()),
			slog.String("username", username),
			slog.String("school", schoolName))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrSavedSchoolNotFound)
}

// RemoveAllForUser implements store.SavedSchoolStore.RemoveAllForUser
func (s *PostgresSavedSchoolStore) RemoveAllForUser(ctx context.Context, username string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM saved_schools WHERE username = $1
	`, username)
	if err != nil {
		log.Error("failed to remove saved schools for user",
			slog.String("error", err.Error()),
			slog.String("username", username))
		return MapError(err)
	}

	if n, err := result.RowsAffected(); err == nil && n > 0 {
		log.Info("saved schools removed",
			slog.String("username", username),
			slog.Int64("count", n))
	}
	return nil
}

// AllByUser implements store.SavedSchoolStore.AllByUser
func (s *PostgresSavedSchoolStore) AllByUser(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, school_name
		FROM saved_schools
		ORDER BY username, saved_at
	`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string][]string)
	for rows.Next() {
		var username, school string
		if err := rows.Scan(&username, &school); err != nil {
			return nil, MapError(err)
		}
		result[username] = append(result[username], school)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return result, nil
}
