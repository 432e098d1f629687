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

// ErrConflict indicates that the operation conflicts with the current state of a resource.
var ErrConflict = errors.New("resource conflict")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrInvalidTransition indicates an illegal loan status change was attempted.
// The loan is left unchanged.
var ErrInvalidTransition = errors.New("invalid loan status transition")

// ErrInsufficientCapital indicates a disbursement was blocked because the capital
// pool balance is below the loan principal. No side effects occur.
var ErrInsufficientCapital = errors.New("insufficient capital")

// ErrDuplicateReference indicates a repayment replay: the external reference code
// has already been recorded. Redelivering gateways must see this as a no-op,
// not a hard failure, or they will keep retrying.
var ErrDuplicateReference = errors.New("duplicate repayment reference code")

// ErrLockTimeout indicates a bounded wait on a row lock expired. The whole
// operation may be retried from the start.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// AppError carries a status code alongside the underlying error.
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

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
