package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	Username string
}

func (e *ErrUserNotFound) Error() string {
	return "User not found."
}

// ErrNotFound indicates a record other than a user was not found
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found.", e.Resource)
}

// ErrForbidden indicates the current user may not act on the resource
type ErrForbidden struct {
	Message string
}

func (e *ErrForbidden) Error() string {
	return e.Message
}

// ErrUnauthenticated indicates there is no acting user
type ErrUnauthenticated struct{}

func (e *ErrUnauthenticated) Error() string {
	return "Unauthorized"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// newValidationError flattens validator field errors into a single message.
func newValidationError(err error) *ErrValidation {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ErrValidation{Message: err.Error()}
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, describeFieldError(fe))
	}
	return &ErrValidation{
		Field:   lowerFirst(fieldErrs[0].Field()),
		Message: strings.Join(parts, "; "),
	}
}

func describeFieldError(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "uuid":
		return field + " must be a UUID"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		userNotFound *ErrUserNotFound
		notFound     *ErrNotFound
		forbidden    *ErrForbidden
		unauth       *ErrUnauthenticated
		validation   *ErrValidation
	)
	switch {
	case errors.As(err, &userNotFound), errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &unauth):
		return http.StatusUnauthorized
	case errors.As(err, &validation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
