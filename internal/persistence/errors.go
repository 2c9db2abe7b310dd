package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a unique constraint (name or email) is violated.
	ErrDuplicate = errors.New("persistence: duplicate record")
	// ErrLastAdministrator is returned when a delete would leave the system
	// without any administrator account.
	ErrLastAdministrator = errors.New("persistence: cannot delete the last administrator")
	// ErrConstraintViolation is returned for other storage level constraint failures.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
)
