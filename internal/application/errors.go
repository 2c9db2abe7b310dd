package application

import "errors"

var (
	// ErrUnauthorized is returned when the acting principal lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a create or update collides with an
	// existing name or email.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrInvalidCredentials is returned for any failed login attempt. Unknown
	// email and wrong password map to the same error so responses cannot be
	// used to enumerate accounts.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrLastAdministrator is returned when deleting a user would leave the
	// system without any administrator.
	ErrLastAdministrator = errors.New("application: cannot delete the last administrator")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
