package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrProductNotFound is returned when a product id does not resolve.
	ErrProductNotFound = errors.New("product not found")
	// ErrReviewNotFound is returned when a review id does not resolve.
	ErrReviewNotFound = errors.New("review not found")
	// ErrUserNotFound is returned when a user id does not resolve.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateReview is returned when a user already holds a review for the product.
	ErrDuplicateReview = errors.New("you have already reviewed this product")
	// ErrForbidden is returned on an ownership or role mismatch.
	ErrForbidden = errors.New("not authorized to perform this action")
	// ErrAdminUndeletable is returned when deletion of an admin account is attempted.
	ErrAdminUndeletable = errors.New("admin accounts cannot be deleted")
)

// ValidationError describes malformed or out-of-range input. It maps to a 400
// response with its message surfaced verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a field-scoped validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unrecognized errors are
// reported to the caller as a generic internal failure; the detail stays in
// the server log.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrReviewNotFound),
		errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateReview),
		errors.Is(err, ErrAdminUndeletable):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusUnauthorized, err.Error())
	case IsValidation(err):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
