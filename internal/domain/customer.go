package domain

import (
	"fmt"
	"sync"
)

// CustomerID задаётся вызывающей стороной.
type CustomerID int64

// Customer хранит данные клиента и историю подтверждённых покупок.
type Customer struct {
	ID    CustomerID
	Name  string
	Email string

	mu      sync.RWMutex
	history []*Order
}

// NewCustomer создаёт клиента с пустой историей.
func NewCustomer(id CustomerID, name, email string) *Customer {
	return &Customer{ID: id, Name: name, Email: email}
}

// RecordPurchase добавляет подтверждённый заказ в историю.
func (c *Customer) RecordPurchase(order *Order) error {
	if order == nil {
		return fmt.Errorf("%w: order is required", ErrInvalidArgument)
	}
	if status := order.Status(); status != OrderStatusConfirmed {
		return fmt.Errorf("%w: order %d is %s, only confirmed orders can be recorded", ErrInvalidState, order.ID, status)
	}

	c.mu.Lock()
	c.history = append(c.history, order)
	c.mu.Unlock()
	return nil
}

// History возвращает копию истории покупок.
func (c *Customer) History() []*Order {
	c.mu.RLock()
	defer c.mu.RUnlock()

	history := make([]*Order, len(c.history))
	copy(history, c.history)
	return history
}

// TotalSpent суммирует стоимость всех заказов в истории.
func (c *Customer) TotalSpent() Money {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var total Money
	for _, order := range c.history {
		total += order.Total()
	}
	return total
}
