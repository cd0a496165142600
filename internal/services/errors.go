package services

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy shared by all services. Handlers translate these to HTTP
// statuses in one place; storage failures are wrapped in ErrServer so
// internal error text never reaches a client.
var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrForbidden = errors.New("forbidden")
	ErrServer    = errors.New("server error")
)

// ValidationError reports malformed or out-of-range input, with the field
// names the caller needs to correct the request.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(e.Fields, ", "))
}

func invalid(message string, fields ...string) error {
	return &ValidationError{Message: message, Fields: fields}
}

func notFound(resource string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, resource)
}

func conflict(message string) error {
	return fmt.Errorf("%w: %s", ErrConflict, message)
}

func serverError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrServer, op, err)
}
