package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "book_not_found", err: ErrBookNotFound, want: "not_found"},
		{name: "order_not_found", err: ErrOrderNotFound, want: "not_found"},
		{name: "insufficient_stock", err: ErrInsufficientStock, want: "insufficient_stock"},
		{name: "payment_failed", err: ErrPaymentFailed, want: "payment_failed"},
		{name: "processing_failed", err: ErrProcessingFailed, want: "processing_failed"},
		{name: "wrapped", err: fmt.Errorf("book abc: %w", ErrBookNotFound), want: "not_found"},
		{name: "double_wrapped", err: fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", ErrInsufficientStock)), want: "insufficient_stock"},
		{name: "unclassified", err: errors.New("boom"), want: "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Kind(tt.err); got != tt.want {
				t.Errorf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSentinelsMatchWithErrorsIs(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("book b-1: %w", ErrBookNotFound)
	if !errors.Is(wrapped, ErrBookNotFound) {
		t.Fatal("wrapped error must match its sentinel")
	}
	if errors.Is(wrapped, ErrOrderNotFound) {
		t.Fatal("sentinels must not match each other")
	}
}
