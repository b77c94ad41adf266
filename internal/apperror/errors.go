// Package apperror defines the error taxonomy shared by the data service,
// the navigation controller and the HTTP layer.
package apperror

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound is a lookup miss on a mutation path.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is a policy violation, e.g. deleting an admin.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict is a referential-integrity violation.
	ErrConflict = errors.New("conflict")
	// ErrValidation reports missing or malformed form input.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized means the action needs a logged-in user.
	ErrUnauthorized = errors.New("login required")
)

// StatusCode maps an error to the HTTP status that best describes it.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// IsUserFacing reports whether err belongs to the taxonomy and can be shown
// to the acting user verbatim.
func IsUserFacing(err error) bool {
	return StatusCode(err) != http.StatusInternalServerError && err != nil
}
