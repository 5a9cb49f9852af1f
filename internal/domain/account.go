package domain

import (
	"fmt"
	"time"
)

// Role discriminates the two account variants. The single-character values
// match the legacy record format ('a' for admins, 'u' for regular users).
type Role byte

const (
	RoleAdmin Role = 'a'
	RoleUser  Role = 'u'
)

// ParseRole maps a record-store role character onto a Role. Any character
// other than 'a' is a regular user, matching the historical store contents.
func ParseRole(c byte) Role {
	if c == 'a' {
		return RoleAdmin
	}
	return RoleUser
}

// String returns the single-character record-store form of the role.
func (r Role) String() string { return string(byte(r)) }

// Account represents a registered account, admin or regular user. The
// username uniquely identifies exactly one account. Only the hashed form of
// the password is carried; comparison goes through an auth.PasswordVerifier.
type Account struct {
	Username       string    `json:"username"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	HashedPassword string    `json:"-"`
	Role           Role      `json:"-"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewAccount creates an active account with the given identity and hashed
// password. Returns an error if validation fails.
func NewAccount(username, firstName, lastName, hashedPassword string, role Role) (*Account, error) {
	a := &Account{
		Username:       username,
		FirstName:      firstName,
		LastName:       lastName,
		HashedPassword: hashedPassword,
		Role:           role,
		Active:         true,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks if the Account has valid data.
func (a *Account) Validate() error {
	if a.Username == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, ErrEmptyUsername)
	}
	if a.HashedPassword == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, ErrEmptyPassword)
	}
	if a.Role != RoleAdmin && a.Role != RoleUser {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, a.Role.String())
	}
	return nil
}

// IsAdmin reports whether the account has administrative privileges. This
// predicate is the only behavioral difference between the two variants.
func (a *Account) IsAdmin() bool { return a.Role == RoleAdmin }
