package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choosemycollege/cmc-core/internal/domain"
	"github.com/choosemycollege/cmc-core/internal/mocks"
	"github.com/choosemycollege/cmc-core/internal/service"
	"github.com/choosemycollege/cmc-core/internal/service/auth"
	"github.com/choosemycollege/cmc-core/internal/store"
)

// newAccountService wires an AccountService over fresh mocks with a
// plaintext hasher, so test fixtures can state passwords directly.
func newAccountService(t *testing.T) (*service.AccountService, *mocks.MockUserStore, *mocks.MockSavedSchoolStore) {
	t.Helper()
	users := mocks.NewMockUserStore()
	saved := mocks.NewMockSavedSchoolStore()
	svc := service.NewAccountService(users, saved, mocks.PassthroughTxRunner(), auth.NewPlaintextHasher(), nil)
	return svc, users, saved
}

func seedAccount(t *testing.T, users *mocks.MockUserStore, username, password string, role domain.Role, active bool) {
	t.Helper()
	account, err := domain.NewAccount(username, "Test", "User", password, role)
	require.NoError(t, err)
	account.Active = active
	users.Users[username] = account
}

func TestAccountService_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("succeeds with matching credentials", func(t *testing.T) {
		t.Parallel()
		svc, users, _ := newAccountService(t)
		seedAccount(t, users, "juser", "user", domain.RoleUser, true)

		account, err := svc.Login(ctx, "juser", "user")
		require.NoError(t, err)
		assert.Equal(t, "juser", account.Username)
		assert.False(t, account.IsAdmin())
	})

	t.Run("returns ErrNoMatch for unknown username", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newAccountService(t)

		account, err := svc.Login(ctx, "nobody", "whatever")
		assert.ErrorIs(t, err, service.ErrNoMatch)
		assert.Nil(t, account)
	})

	t.Run("returns ErrNoMatch for wrong password", func(t *testing.T) {
		t.Parallel()
		svc, users, _ := newAccountService(t)
		seedAccount(t, users, "juser", "user", domain.RoleUser, true)

		account, err := svc.Login(ctx, "juser", "wrong")
		assert.ErrorIs(t, err, service.ErrNoMatch)
		assert.Nil(t, account)
	})

	t.Run("returns ErrNoMatch for deactivated account even with correct password", func(t *testing.T) {
		t.Parallel()
		svc, users, _ := newAccountService(t)
		seedAccount(t, users, "juser", "user", domain.RoleUser, false)

		account, err := svc.Login(ctx, "juser", "user")
		assert.ErrorIs(t, err, service.ErrNoMatch)
		assert.Nil(t, account)
	})

	t.Run("surfaces corrupt records instead of masking them", func(t *testing.T) {
		t.Parallel()
		svc, users, _ := newAccountService(t)
		users.GetByUsernameFn = func(ctx context.Context, username string) (*domain.Account, error) {
			return nil, store.ErrCorruptRecord
		}

		_, err := svc.Login(ctx, "juser", "user")
		assert.ErrorIs(t, err, store.ErrCorruptRecord)
		assert.NotErrorIs(t, err, service.ErrNoMatch)
	})
}

func TestAccountService_AddUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates an active account with hashed password", func(t *testing.T) {
		t.Parallel()
		svc, users, _ := newAccountService(t)

		account, err := svc.AddUser(ctx, "newbie", "secret", "New", "Person", false)
		require.NoError(t, err)
		assert.True(t, account.Active)
		assert.Equal(t, domain.RoleUser, account.Role)

		stored, ok := users.Users["newbie"]
		require.True(t, ok)
		require.NoError(t, auth.NewPlaintextHasher().Compare(stored.HashedPassword, "secret"))
	})

	t.Run("grants admin role when requested", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newAccountService(t)

		account, err := svc.AddUser(ctx, "boss", "secret", "Big", "Boss", true)
		require.NoError(t, err)
		assert.True(t, account.IsAdmin())
	})

	t.Run("rejects duplicate usernames", func(t *testing.T) {
		t.Parallel()
		svc, users, _ := newAccountService(t)
		seedAccount(t, users, "taken", "x", domain.RoleUser, true)

		_, err := svc.AddUser(ctx, "taken", "secret", "Another", "Person", false)
		assert.ErrorIs(t, err, store.ErrUsernameExists)
	})

	t.Run("rejects an empty username before touching the store", func(t *testing.T) {
		t.Parallel()
		svc, users, _ := newAccountService(t)

		_, err := svc.AddUser(ctx, "", "secret", "No", "Name", false)
		assert.ErrorIs(t, err, domain.ErrEmptyUsername)
		assert.Empty(t, users.Users)
	})
}

func TestAccountService_RemoveUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("removes the account and cascades saved schools", func(t *testing.T) {
		t.Parallel()
		svc, users, saved := newAccountService(t)
		seedAccount(t, users, "juser", "user", domain.RoleUser, true)
		_, err := svc.SaveSchool(ctx, "juser", "YALE")
		require.NoError(t, err)
		_, err = svc.SaveSchool(ctx, "juser", "BROWN")
		require.NoError(t, err)

		require.NoError(t, svc.RemoveUser(ctx, "juser"))

		assert.Empty(t, users.Users)
		assert.Empty(t, saved.Saved["juser"])
		assert.Equal(t, []string{"juser"}, saved.RemoveAllCalls)
	})

	t.Run("returns ErrUserNotFound for unknown username", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newAccountService(t)

		err := svc.RemoveUser(ctx, "nobody")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("keeps the account when the cascade fails", func(t *testing.T) {
		t.Parallel()
		svc, users, saved := newAccountService(t)
		seedAccount(t, users, "juser", "user", domain.RoleUser, true)
		saved.RemoveAllError = errors.New("connection reset")

		err := svc.RemoveUser(ctx, "juser")
		require.Error(t, err)
		assert.Empty(t, users.DeleteCalls)
		assert.Contains(t, users.Users, "juser")
	})
}

func TestAccountService_ActivateDeactivate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("deactivate flips only the active flag", func(t *testing.T) {
		t.Parallel()
		svc, users, _ := newAccountService(t)
		seedAccount(t, users, "juser", "user", domain.RoleUser, true)

		ok, err := svc.DeactivateUser(ctx, "juser")
		require.NoError(t, err)
		assert.True(t, ok)

		stored := users.Users["juser"]
		assert.False(t, stored.Active)
		assert.Equal(t, "Test", stored.FirstName)
		assert.Equal(t, domain.RoleUser, stored.Role)
	})

	t.Run("activate restores a deactivated account", func(t *testing.T) {
		t.Parallel()
		svc, users, _ := newAccountService(t)
		seedAccount(t, users, "juser", "user", domain.RoleUser, false)

		ok, err := svc.ActivateUser(ctx, "juser")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, users.Users["juser"].Active)
	})

	t.Run("reports false without error for unknown usernames", func(t *testing.T) {
		t.Parallel()
		svc, users, _ := newAccountService(t)

		ok, err := svc.DeactivateUser(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, users.UpdateCalls)
	})
}

func TestAccountService_UpdateUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	strPtr := func(s string) *string { return &s }

	t.Run("updates only the fields provided", func(t *testing.T) {
		t.Parallel()
		svc, users, _ := newAccountService(t)
		seedAccount(t, users, "juser", "user", domain.RoleUser, true)

		ok, err := svc.UpdateUser(ctx, "juser", service.AccountUpdate{
			FirstName: strPtr("Updated"),
		})
		require.NoError(t, err)
		assert.True(t, ok)

		stored := users.Users["juser"]
		assert.Equal(t, "Updated", stored.FirstName)
		assert.Equal(t, "User", stored.LastName)
		require.NoError(t, auth.NewPlaintextHasher().Compare(stored.HashedPassword, "user"))
	})

	t.Run("rehashes a new password", func(t *testing.T) {
		t.Parallel()
		svc, users, _ := newAccountService(t)
		seedAccount(t, users, "juser", "user", domain.RoleUser, true)

		ok, err := svc.UpdateUser(ctx, "juser", service.AccountUpdate{
			Password: strPtr("rotated"),
		})
		require.NoError(t, err)
		assert.True(t, ok)
		require.NoError(t, auth.NewPlaintextHasher().Compare(users.Users["juser"].HashedPassword, "rotated"))
	})

	t.Run("reports false without error for unknown usernames", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newAccountService(t)

		ok, err := svc.UpdateUser(ctx, "nobody", service.AccountUpdate{FirstName: strPtr("X")})
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestAccountService_SaveSchool(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("first save reports true, repeat saves report false without error", func(t *testing.T) {
		t.Parallel()
		svc, _, saved := newAccountService(t)

		savedNow, err := svc.SaveSchool(ctx, "juser", "YALE")
		require.NoError(t, err)
		assert.True(t, savedNow)

		savedNow, err = svc.SaveSchool(ctx, "juser", "YALE")
		require.NoError(t, err)
		assert.False(t, savedNow)

		names, err := svc.SavedSchools(ctx, "juser")
		require.NoError(t, err)
		assert.Equal(t, []string{"YALE"}, names)
		// the duplicate attempt is short-circuited before a second insert
		assert.Len(t, saved.SaveCalls, 1)
	})

	t.Run("treats a lost insert race as an ordinary duplicate", func(t *testing.T) {
		t.Parallel()
		svc, _, saved := newAccountService(t)
		saved.SaveFn = func(ctx context.Context, s *domain.SavedSchool) error {
			return store.ErrSavedSchoolExists
		}

		savedNow, err := svc.SaveSchool(ctx, "juser", "YALE")
		require.NoError(t, err)
		assert.False(t, savedNow)
	})

	t.Run("rejects an empty school name", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newAccountService(t)

		_, err := svc.SaveSchool(ctx, "juser", "")
		assert.Error(t, err)
	})
}

func TestAccountService_SavedSchoolMap(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, _ := newAccountService(t)
	for _, pair := range [][2]string{{"juser", "YALE"}, {"juser", "BROWN"}, {"other", "YALE"}} {
		_, err := svc.SaveSchool(ctx, pair[0], pair[1])
		require.NoError(t, err)
	}

	got, err := svc.SavedSchoolMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"juser": {"BROWN", "YALE"},
		"other": {"YALE"},
	}, got)
}
