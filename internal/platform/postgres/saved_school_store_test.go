//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choosemycollege/cmc-core/internal/domain"
	"github.com/choosemycollege/cmc-core/internal/platform/postgres"
	"github.com/choosemycollege/cmc-core/internal/store"
	"github.com/choosemycollege/cmc-core/internal/testutils"
)

// savedSchoolFixture creates the user a saved-school row must reference.
func savedSchoolFixture(ctx context.Context, t *testing.T, tx *sql.Tx, username string) (*postgres.PostgresSavedSchoolStore, *postgres.PostgresUserStore) {
	t.Helper()
	userStore := postgres.NewPostgresUserStore(tx, nil)
	require.NoError(t, userStore.Create(ctx, mustAccount(t, username, domain.RoleUser)))
	return postgres.NewPostgresSavedSchoolStore(tx, nil), userStore
}

func mustSavedSchool(t *testing.T, username, schoolName string) *domain.SavedSchool {
	t.Helper()
	saved, err := domain.NewSavedSchool(username, schoolName)
	require.NoError(t, err)
	return saved
}

func TestPostgresSavedSchoolStore_SaveAndList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		savedStore, _ := savedSchoolFixture(ctx, t, tx, "juser")

		first := mustSavedSchool(t, "juser", "YALE")
		second := mustSavedSchool(t, "juser", "BROWN")
		second.SavedAt = first.SavedAt.Add(time.Second)
		require.NoError(t, savedStore.Save(ctx, first))
		require.NoError(t, savedStore.Save(ctx, second))

		records, err := savedStore.ListByUser(ctx, "juser")
		require.NoError(t, err)
		require.Len(t, records, 2)
		// Ordered by save time, oldest first.
		assert.Equal(t, "YALE", records[0].SchoolName)
		assert.Equal(t, "BROWN", records[1].SchoolName)
	})
}

func TestPostgresSavedSchoolStore_DuplicatePair(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		savedStore, _ := savedSchoolFixture(ctx, t, tx, "juser")

		require.NoError(t, savedStore.Save(ctx, mustSavedSchool(t, "juser", "YALE")))
		err := savedStore.Save(ctx, mustSavedSchool(t, "juser", "YALE"))
		assert.ErrorIs(t, err, store.ErrSavedSchoolExists)
	})
}

func TestPostgresSavedSchoolStore_UnknownUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		savedStore := postgres.NewPostgresSavedSchoolStore(tx, nil)

		// The username column references users; saving for an unknown user
		// is a foreign key violation.
		err := savedStore.Save(ctx, mustSavedSchool(t, "nobody", "YALE"))
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestPostgresSavedSchoolStore_Remove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		savedStore, _ := savedSchoolFixture(ctx, t, tx, "juser")

		require.NoError(t, savedStore.Save(ctx, mustSavedSchool(t, "juser", "YALE")))
		require.NoError(t, savedStore.Remove(ctx, "juser", "YALE"))
		assert.ErrorIs(t, savedStore.Remove(ctx, "juser", "YALE"), store.ErrSavedSchoolNotFound)
	})
}

func TestPostgresSavedSchoolStore_RemoveAllForUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		savedStore, _ := savedSchoolFixture(ctx, t, tx, "juser")

		require.NoError(t, savedStore.Save(ctx, mustSavedSchool(t, "juser", "YALE")))
		require.NoError(t, savedStore.Save(ctx, mustSavedSchool(t, "juser", "BROWN")))

		require.NoError(t, savedStore.RemoveAllForUser(ctx, "juser"))
		records, err := savedStore.ListByUser(ctx, "juser")
		require.NoError(t, err)
		assert.Empty(t, records)

		// Removing for a user with nothing saved is not an error.
		require.NoError(t, savedStore.RemoveAllForUser(ctx, "juser"))
	})
}

func TestPostgresSavedSchoolStore_AllByUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		savedStore, userStore := savedSchoolFixture(ctx, t, tx, "juser")
		require.NoError(t, userStore.Create(ctx, mustAccount(t, "other", domain.RoleUser)))

		require.NoError(t, savedStore.Save(ctx, mustSavedSchool(t, "juser", "YALE")))
		require.NoError(t, savedStore.Save(ctx, mustSavedSchool(t, "other", "BROWN")))

		all, err := savedStore.AllByUser(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string][]string{
			"juser": {"YALE"},
			"other": {"BROWN"},
		}, all)
	})
}
