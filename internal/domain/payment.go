package domain

import (
	"fmt"
	"sync"
	"time"
)

// PaymentStatus описывает состояние платежа.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusProcessed PaymentStatus = "processed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// Payment описывает платёж по заказу. Внешнего шлюза нет: проведение всегда успешно.
type Payment struct {
	ID        string
	OrderID   OrderID
	Amount    Money
	Method    string
	CreatedAt time.Time

	mu     sync.Mutex
	status PaymentStatus
}

// NewPayment создаёт платёж в статусе pending.
func NewPayment(id string, orderID OrderID, amount Money, method string) (*Payment, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: payment amount must be non-negative", ErrInvalidArgument)
	}
	return &Payment{
		ID:        id,
		OrderID:   orderID,
		Amount:    amount,
		Method:    method,
		CreatedAt: time.Now().UTC(),
		status:    PaymentStatusPending,
	}, nil
}

// Process проводит платёж: pending -> processed.
func (p *Payment) Process() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.status != PaymentStatusPending {
		return fmt.Errorf("%w: cannot process payment %s in status %s", ErrInvalidState, p.ID, p.status)
	}
	p.status = PaymentStatusProcessed
	return nil
}

// Cancel отменяет любой ещё не проведённый платёж.
func (p *Payment) Cancel() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.status == PaymentStatusProcessed {
		return fmt.Errorf("%w: payment %s is already processed", ErrInvalidState, p.ID)
	}
	p.status = PaymentStatusCancelled
	return nil
}

// Status возвращает текущий статус платежа.
func (p *Payment) Status() PaymentStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}
