package errors

import (
	stderrors "errors"
	"fmt"
)

// ValidationError marks caller input that is missing or malformed (HTTP 400).
// It is never retried server-side.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StoreError marks a failure reported by the persistent store.
// Synchronous paths surface it as HTTP 500 with the underlying message.
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError wraps err as a StoreError for operation op.
// A nil err yields nil.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// PartialFailure records a later step of a multi-step operation that failed
// after earlier steps had already taken effect.
type PartialFailure struct {
	Step string
	Err  error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *PartialFailure) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return stderrors.As(err, &v)
}

// IsStore reports whether err carries a StoreError.
func IsStore(err error) bool {
	var s *StoreError
	return stderrors.As(err, &s)
}

// IngestErrorResponse is the error body of the ingest and process endpoints.
type IngestErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ErrorResponse is the error body of the query endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}
