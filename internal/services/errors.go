// internal/services/errors.go
package services

import "errors"

var (
	// ErrAlreadyExists is returned by sign-up when the email is taken.
	ErrAlreadyExists = errors.New("account already exists")

	// ErrInvalidCredentials is returned by sign-in on unknown email or
	// password mismatch. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrForbidden is returned when a user acts on a record they do not own.
	ErrForbidden = errors.New("not allowed")
)
