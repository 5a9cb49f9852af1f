//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choosemycollege/cmc-core/internal/domain"
	"github.com/choosemycollege/cmc-core/internal/platform/postgres"
	"github.com/choosemycollege/cmc-core/internal/store"
	"github.com/choosemycollege/cmc-core/internal/testutils"
)

func mustAccount(t *testing.T, username string, role domain.Role) *domain.Account {
	t.Helper()
	account, err := domain.NewAccount(username, "Test", "User", "hashed-password", role)
	require.NoError(t, err)
	return account
}

func TestPostgresUserStore_CreateAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		userStore := postgres.NewPostgresUserStore(tx, nil)

		account := mustAccount(t, "juser", domain.RoleUser)
		require.NoError(t, userStore.Create(ctx, account))

		got, err := userStore.GetByUsername(ctx, "juser")
		require.NoError(t, err)
		assert.Equal(t, "juser", got.Username)
		assert.Equal(t, domain.RoleUser, got.Role)
		assert.True(t, got.Active)
		assert.Equal(t, "hashed-password", got.HashedPassword)
	})
}

func TestPostgresUserStore_DuplicateUsername(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		userStore := postgres.NewPostgresUserStore(tx, nil)

		require.NoError(t, userStore.Create(ctx, mustAccount(t, "juser", domain.RoleUser)))
		err := userStore.Create(ctx, mustAccount(t, "juser", domain.RoleAdmin))
		assert.ErrorIs(t, err, store.ErrUsernameExists)
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})
}

func TestPostgresUserStore_GetUnknown(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		userStore := postgres.NewPostgresUserStore(tx, nil)

		_, err := userStore.GetByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestPostgresUserStore_GetAllOrdered(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		userStore := postgres.NewPostgresUserStore(tx, nil)

		for _, name := range []string{"walter", "alice", "mallory"} {
			require.NoError(t, userStore.Create(ctx, mustAccount(t, name, domain.RoleUser)))
		}

		accounts, err := userStore.GetAll(ctx)
		require.NoError(t, err)
		usernames := make([]string, 0, len(accounts))
		for _, a := range accounts {
			usernames = append(usernames, a.Username)
		}
		assert.Equal(t, []string{"alice", "mallory", "walter"}, usernames)
	})
}

func TestPostgresUserStore_Update(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		userStore := postgres.NewPostgresUserStore(tx, nil)

		account := mustAccount(t, "juser", domain.RoleUser)
		require.NoError(t, userStore.Create(ctx, account))

		account.FirstName = "Renamed"
		account.Active = false
		require.NoError(t, userStore.Update(ctx, account))

		got, err := userStore.GetByUsername(ctx, "juser")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.FirstName)
		assert.False(t, got.Active)
	})
}

func TestPostgresUserStore_UpdateUnknown(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		userStore := postgres.NewPostgresUserStore(tx, nil)

		err := userStore.Update(ctx, mustAccount(t, "nobody", domain.RoleUser))
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestPostgresUserStore_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		userStore := postgres.NewPostgresUserStore(tx, nil)

		require.NoError(t, userStore.Create(ctx, mustAccount(t, "juser", domain.RoleUser)))
		require.NoError(t, userStore.Delete(ctx, "juser"))

		_, err := userStore.GetByUsername(ctx, "juser")
		assert.ErrorIs(t, err, store.ErrUserNotFound)

		assert.ErrorIs(t, userStore.Delete(ctx, "juser"), store.ErrUserNotFound)
	})
}
