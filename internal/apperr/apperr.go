// Package apperr defines the error taxonomy shared by the stores,
// the orchestrator, and the transport layer. Every domain error
// carries a classification kind that the HTTP layer maps to a status.
package apperr

import "errors"

// Error is a classified domain error.
type Error struct {
	kind string
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Kind returns the error classification.
func (e *Error) Kind() string { return e.kind }

var (
	ErrBookNotFound     = &Error{kind: "not_found", msg: "book not found"}
	ErrOrderNotFound    = &Error{kind: "not_found", msg: "order not found"}
	ErrDeliveryNotFound = &Error{kind: "not_found", msg: "delivery not found"}

	ErrInvalidInput      = &Error{kind: "invalid_input", msg: "invalid input"}
	ErrInsufficientStock = &Error{kind: "insufficient_stock", msg: "insufficient stock"}

	// ErrAlreadyProcessed covers repeated payment attempts and
	// cancellation of shipped/delivered orders.
	ErrAlreadyProcessed = &Error{kind: "already_processed", msg: "already processed"}

	ErrPaymentFailed = &Error{kind: "payment_failed", msg: "payment failed"}

	// ErrProcessingFailed is the catch-all for faults during
	// orchestration after validation passed.
	ErrProcessingFailed = &Error{kind: "processing_failed", msg: "order processing failed"}
)

// kinder is satisfied by errors that carry a classification kind.
type kinder interface {
	Kind() string
}

// Kind returns the classification of err, or "internal" for
// unclassified errors and "" for nil.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	var k kinder
	if errors.As(err, &k) {
		return k.Kind()
	}
	return "internal"
}
