package domain

import (
	"errors"
	"testing"
)

func TestPayment_Lifecycle(t *testing.T) {
	payment, err := NewPayment("pay-1", 1, MoneyFromFloat(4200), "pix")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.Status() != PaymentStatusPending {
		t.Fatalf("expected pending, got %s", payment.Status())
	}

	if err := payment.Process(); err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if payment.Status() != PaymentStatusProcessed {
		t.Fatalf("expected processed, got %s", payment.Status())
	}

	if err := payment.Process(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on second process, got %v", err)
	}
	if err := payment.Cancel(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on cancel after process, got %v", err)
	}
}

func TestPayment_CancelPending(t *testing.T) {
	payment, _ := NewPayment("pay-1", 1, 100, "card")

	if err := payment.Cancel(); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if payment.Status() != PaymentStatusCancelled {
		t.Fatalf("expected cancelled, got %s", payment.Status())
	}
	if err := payment.Process(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestNewPayment_NegativeAmount(t *testing.T) {
	if _, err := NewPayment("pay-1", 1, -1, "card"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
