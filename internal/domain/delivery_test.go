package domain

import (
	"errors"
	"testing"
)

func TestDelivery_Lifecycle(t *testing.T) {
	delivery := NewDelivery("dlv-1", 1, "Rua das Flores, 123")
	if delivery.Status() != DeliveryStatusPreparing {
		t.Fatalf("expected preparing, got %s", delivery.Status())
	}

	if err := delivery.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := delivery.Confirm(); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if delivery.Status() != DeliveryStatusDelivered {
		t.Fatalf("expected delivered, got %s", delivery.Status())
	}
}

func TestDelivery_IllegalTransitions(t *testing.T) {
	tests := []struct {
		name string
		run  func(d *Delivery) error
	}{
		{
			name: "confirm before start",
			run:  func(d *Delivery) error { return d.Confirm() },
		},
		{
			name: "start twice",
			run: func(d *Delivery) error {
				_ = d.Start()
				return d.Start()
			},
		},
		{
			name: "confirm twice",
			run: func(d *Delivery) error {
				_ = d.Start()
				_ = d.Confirm()
				return d.Confirm()
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDelivery("dlv-1", 1, "addr")
			if err := tc.run(d); !errors.Is(err, ErrInvalidState) {
				t.Fatalf("expected ErrInvalidState, got %v", err)
			}
		})
	}
}
