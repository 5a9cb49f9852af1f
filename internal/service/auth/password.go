// Package auth provides password hashing and verification for account
// authentication.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned by Compare when the password does not match.
var ErrMismatch = errors.New("password mismatch")

// PasswordHasher hashes plaintext passwords for storage and compares
// submitted passwords against the stored form.
type PasswordHasher interface {
	// Hash converts a plaintext password into its stored form.
	Hash(password string) (string, error)

	// Compare compares a stored password with its possible plaintext
	// equivalent. Returns nil on success or ErrMismatch on failure.
	Compare(stored, password string) error
}

// BcryptHasher implements PasswordHasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher with the given cost. A cost of 0
// uses bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash implements PasswordHasher.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare implements PasswordHasher.
func (h *BcryptHasher) Compare(stored, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)); err != nil {
		return fmt.Errorf("%w: %v", ErrMismatch, err)
	}
	return nil
}

// PlaintextHasher implements PasswordHasher with verbatim comparison. It
// exists only for compatibility with legacy record stores that hold
// plaintext passwords; new deployments should use BcryptHasher.
type PlaintextHasher struct{}

// NewPlaintextHasher creates a PlaintextHasher.
func NewPlaintextHasher() *PlaintextHasher {
	return &PlaintextHasher{}
}

// Hash implements PasswordHasher. The stored form is the password itself.
func (h *PlaintextHasher) Hash(password string) (string, error) {
	return password, nil
}

// Compare implements PasswordHasher.
func (h *PlaintextHasher) Compare(stored, password string) error {
	if stored != password {
		return ErrMismatch
	}
	return nil
}
