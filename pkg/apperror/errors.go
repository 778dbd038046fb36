package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies application errors so handlers can map them to HTTP codes
// and callers can branch without string matching.
type Kind string

const (
	// KindValidation marks user input rejected before any mutation.
	KindValidation Kind = "VALIDATION"
	// KindPrecondition marks an unmet internal precondition, e.g. an
	// unresolved tax rate or a zero allocation base.
	KindPrecondition Kind = "PRECONDITION"
	// KindNotFound marks a referenced entity that does not exist for the tenant.
	KindNotFound Kind = "NOT_FOUND"
	// KindConflict marks a duplicate unique key (code, barcode, ...).
	KindConflict Kind = "CONFLICT"
	// KindTransaction marks a storage transaction that failed to open or commit.
	KindTransaction Kind = "TRANSACTION"
)

// AppError is an application error with a kind and HTTP status.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to a response status code.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindPrecondition:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func Precondition(message string, err error) *AppError {
	return &AppError{Kind: KindPrecondition, Message: message, Err: err}
}

func NotFound(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: resource + " not found"}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func Transaction(err error) *AppError {
	return &AppError{Kind: KindTransaction, Message: "transaction failed", Err: err}
}

// As extracts an AppError if err carries one.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// StatusOf returns the HTTP status for any error, defaulting to 500.
func StatusOf(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}
