// Package api is the single point of contact with the Handit backend:
// authenticated HTTP calls plus the push-notification channel.
package api

import (
	"errors"
	"fmt"
)

// Failure taxonomy. Callers match with errors.Is and translate every case
// to a user-facing message; none of these are fatal to the process.
var (
	// ErrUnreachable means the backend could not be contacted at all.
	ErrUnreachable = errors.New("backend unreachable")

	// ErrUnauthorized is a 401: the credentials were rejected.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnauthenticated means a call that requires a bearer token was made
	// before any token was cached. This is a hard failure; there is no
	// fallback credential.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrBadRequest is a 400.
	ErrBadRequest = errors.New("bad request")

	// ErrConflict is a 409, e.g. signing up with an existing account.
	ErrConflict = errors.New("account already exists")

	// ErrServerError is any 5xx.
	ErrServerError = errors.New("server error")
)

// statusError maps an HTTP status code onto the taxonomy.
func statusError(code int) error {
	switch {
	case code == 400:
		return ErrBadRequest
	case code == 401:
		return ErrUnauthorized
	case code == 409:
		return ErrConflict
	case code >= 500:
		return fmt.Errorf("%w (status %d)", ErrServerError, code)
	default:
		return fmt.Errorf("unexpected response status %d", code)
	}
}
