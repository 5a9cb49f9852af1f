package testutils

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/pressly/goose/v3"
)

// migrationsRunOnce ensures migrations run once across all tests.
var migrationsRunOnce sync.Once

// gooseQuietLogger silences goose output during tests.
type gooseQuietLogger struct{}

func (gooseQuietLogger) Fatalf(format string, v ...interface{}) {
	panic(fmt.Sprintf(format, v...))
}
func (gooseQuietLogger) Printf(format string, v ...interface{}) {}

// migrationsDir resolves the project migrations directory relative to this
// source file.
func migrationsDir() (string, error) {
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to determine caller path")
	}
	dir := filepath.Join(filepath.Dir(thisFile), "..", "platform", "postgres", "migrations")
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("migrations directory not found at %s: %w", dir, err)
	}
	return dir, nil
}

// SetupTestDatabaseSchema resets the schema to baseline and applies all
// project migrations. Call it once from TestMain; repeat calls are no-ops.
func SetupTestDatabaseSchema(db *sql.DB) error {
	var setupErr error
	migrationsRunOnce.Do(func() {
		if err := goose.SetDialect("postgres"); err != nil {
			setupErr = fmt.Errorf("failed to set goose dialect: %w", err)
			return
		}

		dir, err := migrationsDir()
		if err != nil {
			setupErr = err
			return
		}

		goose.SetLogger(gooseQuietLogger{})

		if err := goose.DownTo(db, dir, 0); err != nil {
			setupErr = fmt.Errorf("failed to reset database schema: %w", err)
			return
		}
		if err := goose.Up(db, dir); err != nil {
			setupErr = fmt.Errorf("failed to apply migrations: %w", err)
			return
		}
	})
	return setupErr
}

// WithTx runs a test function inside a transaction that is rolled back when
// the function returns. Tests that share tables can run in parallel without
// interfering with each other, and no manual cleanup is needed.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Errorf("failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}
