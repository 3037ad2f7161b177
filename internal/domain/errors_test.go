package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsInsufficientStock(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "sentinel", err: ErrInsufficientStock, want: true},
		{name: "typed", err: &InsufficientStockError{ProductID: 1, Requested: 2, Available: 1}, want: true},
		{name: "wrapped typed", err: fmt.Errorf("confirm order 1: %w", &InsufficientStockError{ProductID: 1}), want: true},
		{name: "other error", err: ErrInvalidState, want: false},
		{name: "nil error", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInsufficientStock(tt.err); got != tt.want {
				t.Errorf("IsInsufficientStock() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsInvalidState(t *testing.T) {
	if !IsInvalidState(errors.Join(ErrInvalidState, errors.New("extra context"))) {
		t.Fatal("expected joined error to match ErrInvalidState")
	}
	if IsInvalidState(ErrNotFound) {
		t.Fatal("ErrNotFound must not match ErrInvalidState")
	}
}

func TestInsufficientStockError_Message(t *testing.T) {
	err := &InsufficientStockError{ProductID: 2, Requested: 5, Available: 3}
	want := "insufficient stock for product 2: requested 5, available 3"
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
