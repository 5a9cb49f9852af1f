package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations. These are the
// only error kinds the controller layer interprets; raw driver errors never
// cross the store boundary.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is the generic version of the entity-specific not found
	// errors (e.g., ErrUserNotFound, ErrUniversityNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a second account with the same username).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or violates a store constraint. Check the wrapped error
	// for details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrCorruptRecord is returned when a stored record cannot be decoded
	// into its entity, such as a multi-character role or active flag. This
	// is a data-integrity failure, deliberately distinct from both
	// ErrNotFound and a credential mismatch.
	ErrCorruptRecord = errors.New("corrupt record")

	// ErrTransactionFailed is returned when a transaction fails to begin or
	// commit.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors.

	// ErrUserNotFound indicates that the requested account does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrUniversityNotFound indicates that the requested university does
	// not exist.
	ErrUniversityNotFound = fmt.Errorf("%w: university", ErrNotFound)

	// ErrSavedSchoolNotFound indicates that the requested saved-school
	// association does not exist.
	ErrSavedSchoolNotFound = fmt.Errorf("%w: saved school", ErrNotFound)

	// Entity-specific "duplicate" errors.

	// ErrUsernameExists indicates that an account with the given username
	// already exists.
	ErrUsernameExists = fmt.Errorf("%w: username", ErrDuplicate)

	// ErrUniversityExists indicates that a university with the given name
	// already exists.
	ErrUniversityExists = fmt.Errorf("%w: university name", ErrDuplicate)

	// ErrSavedSchoolExists indicates that the (username, school) pair is
	// already saved.
	ErrSavedSchoolExists = fmt.Errorf("%w: saved school", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific failures with
// additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "user", "university")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation,
// message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
