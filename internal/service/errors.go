package service

import "errors"

// Service-level errors exposed to the interaction layer.
var (
	// ErrNoMatch is returned by Login whenever authentication does not
	// succeed. Unknown username, wrong password, and deactivated account
	// all collapse into this one error: callers deliberately cannot tell
	// them apart.
	ErrNoMatch = errors.New("no matching account")
)
