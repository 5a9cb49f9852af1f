package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/choosemycollege/cmc-core/internal/domain"
	"github.com/choosemycollege/cmc-core/internal/platform/logger"
	"github.com/choosemycollege/cmc-core/internal/store"
)

// Single-character record flags for the active column. The legacy record
// format stores activation as a CHAR(1), and the decode boundary treats any
// other width as corruption.
const (
	activeFlagYes = "Y"
	activeFlagNo  = "N"
)

// PostgresUserStore implements the store.UserStore interface using a
// PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the
// UserStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

// rowScanner abstracts *sql.Row and *sql.Rows for the decode boundary.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanAccount is the single decode boundary for account records. It
// validates the CHAR(1) role and active flags before building the entity;
// a flag of any other width is a data-integrity failure, distinct from both
// "not found" and a credential mismatch.
func scanAccount(row rowScanner) (*domain.Account, error) {
	var a domain.Account
	var role, active string
	err := row.Scan(
		&a.Username,
		&a.FirstName,
		&a.LastName,
		&a.HashedPassword,
		&role,
		&active,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(role) != 1 {
		return nil, fmt.Errorf("%w: role flag %q for user %q", store.ErrCorruptRecord, role, a.Username)
	}
	if len(active) != 1 {
		return nil, fmt.Errorf("%w: active flag %q for user %q", store.ErrCorruptRecord, active, a.Username)
	}
	a.Role = domain.ParseRole(role[0])
	a.Active = active == activeFlagYes
	return &a, nil
}

// activeFlag converts the boolean form back to the CHAR(1) record format.
func activeFlag(active bool) string {
	if active {
		return activeFlagYes
	}
	return activeFlagNo
}

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		log.Warn("account validation failed during create",
			slog.String("error", err.Error()),
			slog.String("username", account.Username))
		return err
	}

	query := `
		INSERT INTO users (username, first_name, last_name, hashed_password, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		account.Username,
		account.FirstName,
		account.LastName,
		account.HashedPassword,
		account.Role.String(),
		activeFlag(account.Active),
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("duplicate username during create",
				slog.String("username", account.Username))
			return MapUniqueViolation(err, store.ErrUsernameExists)
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("username", account.Username))
		return MapError(err)
	}

	log.Info("user created",
		slog.String("username", account.Username),
		slog.Bool("admin", account.IsAdmin()))
	return nil
}

const selectAccountColumns = `
	SELECT username, first_name, last_name, hashed_password, role, active, created_at, updated_at
	FROM users
`

// GetByUsername implements store.UserStore.GetByUsername
func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(ctx, selectAccountColumns+` WHERE username = $1`, username)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String("username", username))
			return nil, store.ErrUserNotFound
		}
		if errors.Is(err, store.ErrCorruptRecord) {
			log.Error("corrupt user record",
				slog.String("error", err.Error()),
				slog.String("username", username))
			return nil, err
		}
		log.Error("failed to get user",
			slog.String("error", err.Error()),
			slog.String("username", username))
		return nil, MapError(err)
	}
	return account, nil
}

// GetAll implements store.UserStore.GetAll
func (s *PostgresUserStore) GetAll(ctx context.Context) ([]*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, selectAccountColumns+` ORDER BY username`)
	if err != nil {
		log.Error("failed to list users", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			log.Error("failed to decode user row", slog.String("error", err.Error()))
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return accounts, nil
}

// Update implements store.UserStore.Update
func (s *PostgresUserStore) Update(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		log.Warn("account validation failed during update",
			slog.String("error", err.Error()),
			slog.String("username", account.Username))
		return err
	}

	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, hashed_password = $4, role = $5, active = $6, updated_at = $7
		WHERE username = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		account.Username,
		account.FirstName,
		account.LastName,
		account.HashedPassword,
		account.Role.String(),
		activeFlag(account.Active),
		account.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("username", account.Username))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		return err
	}

	log.Info("user updated", slog.String("username", account.Username))
	return nil
}

// Delete implements store.UserStore.Delete
func (s *PostgresUserStore) Delete(ctx context.Context, username string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		log.Error("failed to delete user",
			slog.String("error", err.Error()),
			slog.String("username", username))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		return err
	}

	log.Info("user deleted", slog.String("username", username))
	return nil
}
