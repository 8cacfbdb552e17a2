package repository

import "errors"

// Sentinel errors shared by every repository. Services match on these
// instead of driver-level errors.
var (
	// ErrNotFound is returned when the addressed row does not exist:
	// an unknown API key value, an account with no stored credential,
	// or a revoke targeting a missing key.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert collides with a unique
	// constraint, such as a reused account email.
	ErrDuplicate = errors.New("record already exists")
)
