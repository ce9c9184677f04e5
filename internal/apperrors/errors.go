package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that a concurrent writer changed the state this operation depended on.
// Callers should re-read and treat the winner's result as authoritative.
var ErrConflict = errors.New("conflict")

// ErrInternal is used for infrastructure failures that are not the caller's fault.
var ErrInternal = errors.New("internal error")

var (
	// ErrRateUnavailable means no currency rate exists on or before the requested date.
	ErrRateUnavailable = fmt.Errorf("%w: no rate available", ErrValidation)
	// ErrUnbalanced means debit legs and credit legs differ in base currency.
	ErrUnbalanced = fmt.Errorf("%w: posting lines do not balance", ErrValidation)
	// ErrDocumentVoided means the document was posted and then voided; it cannot be posted again.
	ErrDocumentVoided = fmt.Errorf("%w: document already voided", ErrValidation)
	// ErrNothingToVoid means no POSTED run exists for the document.
	ErrNothingToVoid = fmt.Errorf("%w: nothing to void", ErrNotFound)
)

// AppError carries an HTTP-ish status code together with the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewValidationError returns an error that matches ErrValidation.
func NewValidationError(message string) error {
	return fmt.Errorf("%w: %s", ErrValidation, message)
}

// NewNotFoundError returns an error that matches ErrNotFound.
func NewNotFoundError(resource string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, resource)
}
