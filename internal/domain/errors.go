package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrInvalidArgument is returned when a caller passes a malformed or
	// out-of-range value to an entity constructor or setter. It is always
	// surfaced immediately and never retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotUppercase is returned when a string field is not
	// uppercase-normalized. All persisted string fields are stored in
	// canonical uppercase form.
	ErrNotUppercase = errors.New("value must be uppercase")

	// ErrEmptyName is returned when a required name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrEmptyUsername is returned when an account username is empty.
	ErrEmptyUsername = errors.New("username cannot be empty")

	// ErrEmptyPassword is returned when no password (hashed or plaintext)
	// is available for an account.
	ErrEmptyPassword = errors.New("password cannot be empty")
)
