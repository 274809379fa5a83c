// internal/apperr/errors.go
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError indicates bad input from the caller (missing field, invalid
// category for the transaction type, start date after end date and so on).
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return e.Err }

func NewValidation(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NotFoundError indicates a referenced entity (client, technician, service
// order) does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NewNotFound(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

// StoreError wraps a failure of the underlying database. The original cause
// is preserved for logging but callers only see the domain message.
type StoreError struct {
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}
func (e *StoreError) Unwrap() error { return e.Err }

func NewStore(message string, err error) *StoreError {
	return &StoreError{Message: message, Err: err}
}

// ExportError wraps a rendering or I/O failure while producing a report file.
type ExportError struct {
	Message string
	Err     error
}

func (e *ExportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}
func (e *ExportError) Unwrap() error { return e.Err }

func NewExport(message string, err error) *ExportError {
	return &ExportError{Message: message, Err: err}
}

// HTTPStatus maps a domain error to the HTTP status code the API layer
// should answer with.
func HTTPStatus(err error) int {
	var (
		ve *ValidationError
		nf *NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show to API clients. Store and
// export failures hide the wrapped cause.
func PublicMessage(err error) string {
	var (
		ve *ValidationError
		nf *NotFoundError
		se *StoreError
		ee *ExportError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &nf):
		return nf.Message
	case errors.As(err, &se):
		return se.Message
	case errors.As(err, &ee):
		return ee.Message
	default:
		return "Erro interno do servidor"
	}
}
