package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the application error taxonomy. Services return these
// (usually wrapped with %w plus context); handlers map them to HTTP statuses.

// ErrNotFound indicates that a referenced project, entry or other resource does not exist.
var ErrNotFound = errors.New("resource not found")

// ErrForbidden indicates the access gate denied the actor for this action.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrValidation is the parent of all client-correctable input failures.
var ErrValidation = errors.New("validation error")

// ErrInvalidAmount indicates a non-positive or malformed monetary amount.
var ErrInvalidAmount = fmt.Errorf("%w: invalid amount", ErrValidation)

// ErrInvalidType indicates an entry type outside CREDIT/DEBIT.
var ErrInvalidType = fmt.Errorf("%w: invalid entry type", ErrValidation)

// ErrMissingField indicates a required field was empty.
var ErrMissingField = fmt.Errorf("%w: missing required field", ErrValidation)

// ErrConflict indicates the request is valid but clashes with current state.
var ErrConflict = errors.New("conflict with current state")

// ErrAlreadyCancelled indicates an attempt to cancel a ledger entry twice.
// Re-cancellation is a reported conflict, never a silent no-op.
var ErrAlreadyCancelled = fmt.Errorf("%w: entry already cancelled", ErrConflict)

// ErrDuplicate indicates an attempt to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal indicates a storage or infrastructure failure. Nothing partial
// was committed when this is returned.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside the underlying error.
// The pgsql layer uses it to annotate infrastructure failures with context.
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
	if e.Err != nil {
		return e.Err
	}
	// A bare 5xx AppError still matches ErrInternal for errors.Is callers.
	if e.Code >= 500 {
		return ErrInternal
	}
	return nil
}

// NewAppError wraps err with a status code and message. Codes >= 500 are
// treated as ErrInternal by errors.Is.
func NewAppError(code int, message string, err error) *AppError {
	if err != nil && code >= 500 && !errors.Is(err, ErrInternal) {
		err = fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewConflictError creates an AppError that matches ErrConflict.
func NewConflictError(message string) *AppError {
	return &AppError{Code: 409, Message: message, Err: ErrConflict}
}
