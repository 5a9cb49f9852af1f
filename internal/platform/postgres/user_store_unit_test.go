package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choosemycollege/cmc-core/internal/domain"
	"github.com/choosemycollege/cmc-core/internal/store"
)

// fakeRow feeds canned column values into scanAccount. Dest order matches
// selectAccountColumns.
type fakeRow struct {
	username  string
	firstName string
	lastName  string
	password  string
	role      string
	active    string
	createdAt time.Time
	updatedAt time.Time
}

func (r fakeRow) Scan(dest ...any) error {
	*dest[0].(*string) = r.username
	*dest[1].(*string) = r.firstName
	*dest[2].(*string) = r.lastName
	*dest[3].(*string) = r.password
	*dest[4].(*string) = r.role
	*dest[5].(*string) = r.active
	*dest[6].(*time.Time) = r.createdAt
	*dest[7].(*time.Time) = r.updatedAt
	return nil
}

func validFakeRow() fakeRow {
	now := time.Now().UTC()
	return fakeRow{
		username:  "juser",
		firstName: "Test",
		lastName:  "User",
		password:  "hashed",
		role:      "u",
		active:    "Y",
		createdAt: now,
		updatedAt: now,
	}
}

func TestScanAccount(t *testing.T) {
	t.Run("decodes a well-formed record", func(t *testing.T) {
		account, err := scanAccount(validFakeRow())
		require.NoError(t, err)
		assert.Equal(t, "juser", account.Username)
		assert.Equal(t, domain.RoleUser, account.Role)
		assert.True(t, account.Active)
	})

	t.Run("decodes the admin role", func(t *testing.T) {
		row := validFakeRow()
		row.role = "a"
		account, err := scanAccount(row)
		require.NoError(t, err)
		assert.True(t, account.IsAdmin())
	})

	t.Run("any role other than admin is a regular user", func(t *testing.T) {
		row := validFakeRow()
		row.role = "x"
		account, err := scanAccount(row)
		require.NoError(t, err)
		assert.False(t, account.IsAdmin())
	})

	t.Run("treats any non-Y active flag as inactive", func(t *testing.T) {
		row := validFakeRow()
		row.active = "N"
		account, err := scanAccount(row)
		require.NoError(t, err)
		assert.False(t, account.Active)
	})

	t.Run("rejects a multi-character role flag as corrupt", func(t *testing.T) {
		row := validFakeRow()
		row.role = "admin"
		_, err := scanAccount(row)
		assert.ErrorIs(t, err, store.ErrCorruptRecord)
	})

	t.Run("rejects an empty active flag as corrupt", func(t *testing.T) {
		row := validFakeRow()
		row.active = ""
		_, err := scanAccount(row)
		assert.ErrorIs(t, err, store.ErrCorruptRecord)
	})
}

func TestActiveFlag(t *testing.T) {
	assert.Equal(t, "Y", activeFlag(true))
	assert.Equal(t, "N", activeFlag(false))
}

func TestNewPostgresUserStorePanicsOnNilDB(t *testing.T) {
	assert.Panics(t, func() {
		NewPostgresUserStore(nil, nil)
	})
}
