package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOrderNotFound is returned when an order ID cannot be found in the store.
var ErrOrderNotFound = errors.New("order not found")

// ErrorKind categorizes a workflow failure.
type ErrorKind string

const (
	// ErrExtraction indicates the oracle's output was unusable.
	ErrExtraction ErrorKind = "extraction_error"
	// ErrMissingField indicates a required field was absent at a step's precondition check.
	ErrMissingField ErrorKind = "missing_field"
	// ErrNotFound indicates a referenced catalog entity or order does not exist.
	ErrNotFound ErrorKind = "not_found"
	// ErrInsufficientStock indicates catalog stock is below the requested quantity.
	ErrInsufficientStock ErrorKind = "insufficient_stock"
	// ErrPayment indicates the payment step did not report success.
	ErrPayment ErrorKind = "payment_failure"
	// ErrAction indicates the cancellation action could not resolve its target.
	ErrAction ErrorKind = "action_error"
	// ErrInternal indicates an unexpected failure caught at a step boundary.
	ErrInternal ErrorKind = "internal_error"
)

// FlowError is a workflow failure carried as a value in the Envelope.
// Steps never raise across the workflow boundary; they set a FlowError
// and let the router surface it at the finalize step.
type FlowError struct {
	Kind    ErrorKind
	Message string
}

func (e *FlowError) Error() string {
	return e.Message
}

// NewFlowError builds a FlowError with a formatted message.
func NewFlowError(kind ErrorKind, format string, args ...any) *FlowError {
	return &FlowError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewMissingFieldError reports every missing field, not just the first.
func NewMissingFieldError(fields ...string) *FlowError {
	return &FlowError{
		Kind:    ErrMissingField,
		Message: "missing required order information: " + strings.Join(fields, ", "),
	}
}
