package domain

import (
	"fmt"
	"sync"
	"time"
)

// DeliveryStatus описывает этап доставки.
type DeliveryStatus string

const (
	DeliveryStatusPreparing DeliveryStatus = "preparing"
	DeliveryStatusInTransit DeliveryStatus = "in_transit"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
)

// Delivery описывает доставку заказа.
type Delivery struct {
	ID        string
	OrderID   OrderID
	Address   string
	CreatedAt time.Time

	mu     sync.Mutex
	status DeliveryStatus
}

// NewDelivery создаёт доставку в статусе preparing.
func NewDelivery(id string, orderID OrderID, address string) *Delivery {
	return &Delivery{
		ID:        id,
		OrderID:   orderID,
		Address:   address,
		CreatedAt: time.Now().UTC(),
		status:    DeliveryStatusPreparing,
	}
}

// Start передаёт заказ в доставку: preparing -> in_transit.
func (d *Delivery) Start() error {
	return d.transition(DeliveryStatusPreparing, DeliveryStatusInTransit)
}

// Confirm подтверждает вручение: in_transit -> delivered.
func (d *Delivery) Confirm() error {
	return d.transition(DeliveryStatusInTransit, DeliveryStatusDelivered)
}

func (d *Delivery) transition(from, to DeliveryStatus) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.status != from {
		return fmt.Errorf("%w: delivery %s is %s, expected %s", ErrInvalidState, d.ID, d.status, from)
	}
	d.status = to
	return nil
}

// Status возвращает текущий этап доставки.
func (d *Delivery) Status() DeliveryStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}
