package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the authenticated user may not perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the resource is in a state that disallows the requested action.
var ErrConflict = errors.New("conflict")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ValidationError carries the accumulated field-path and entry-level messages
// produced by journal entry validation. Field keys use the wire paths of the
// entry payload (e.g. "description", "lines.0.debit_amount") so handlers can
// render them directly into the 422 response body.
type ValidationError struct {
	Errors map[string][]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// Unwrap makes errors.Is(err, ErrValidation) hold for any ValidationError.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a ValidationError from a field error map.
func NewValidationError(errs map[string][]string) *ValidationError {
	return &ValidationError{Errors: errs}
}
