package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("operation not permitted for caller")
	ErrInvalidState       = errors.New("invalid order state for operation")
	ErrValidation         = errors.New("validation failed")
	ErrItemsFinal         = errors.New("order items are marked final")
	ErrPlanExhausted      = errors.New("payment plan already fully paid")
	ErrNotPaymentPlan     = errors.New("order is not on a payment plan")
)

// InvalidStateError reports a rejected transition together with the status
// the order actually had when the precondition was checked.
type InvalidStateError struct {
	Operation string
	Current   string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("operation %q not allowed while order is %s", e.Operation, e.Current)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// NewInvalidState builds an InvalidStateError for the given operation/status pair.
func NewInvalidState(operation, current string) error {
	return &InvalidStateError{Operation: operation, Current: current}
}

// ValidationError carries the offending field for malformed input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidation builds a ValidationError.
func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
