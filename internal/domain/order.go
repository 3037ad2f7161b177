package domain

import (
	"fmt"
	"sync"
	"time"
)

// OrderID выдаётся магазином монотонно и не переиспользуется.
type OrderID int64

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusConfirmed: остатки списаны.
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Terminal сообщает, что из статуса больше нет переходов.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusConfirmed || s == OrderStatusCancelled
}

// OrderLine представляет одну позицию заказа.
type OrderLine struct {
	// Product общий с реестром, заказ им не владеет.
	Product  *Product
	Quantity int
}

// Subtotal возвращает стоимость позиции.
func (l OrderLine) Subtotal() Money {
	return l.Product.Price.Mul(l.Quantity)
}

// Order агрегирует позиции заказа, его сумму и статус.
type Order struct {
	ID         OrderID
	CustomerID CustomerID
	CreatedAt  time.Time

	mu        sync.Mutex
	lines     []OrderLine
	total     Money
	status    OrderStatus
	updatedAt time.Time
}

// NewOrder создаёт заказ в статусе pending.
func NewOrder(id OrderID, customerID CustomerID) *Order {
	now := time.Now().UTC()
	return &Order{
		ID:         id,
		CustomerID: customerID,
		CreatedAt:  now,
		status:     OrderStatusPending,
		updatedAt:  now,
	}
}

// AddLine добавляет позицию и пересчитывает сумму.
// Наличие на складе здесь не проверяется: остатки списываются только в Confirm.
func (o *Order) AddLine(product *Product, qty int) error {
	if product == nil {
		return fmt.Errorf("%w: product is required", ErrInvalidArgument)
	}
	if qty <= 0 {
		return fmt.Errorf("%w: qty must be greater than zero, got %d", ErrInvalidArgument, qty)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status != OrderStatusPending {
		return fmt.Errorf("%w: order %d is %s", ErrInvalidState, o.ID, o.status)
	}
	o.lines = append(o.lines, OrderLine{Product: product, Quantity: qty})
	o.recalculate()
	return nil
}

func (o *Order) recalculate() {
	var total Money
	for _, line := range o.lines {
		total += line.Subtotal()
	}
	o.total = total
	o.updatedAt = time.Now().UTC()
}

// Confirm списывает остатки по всем позициям и переводит заказ в confirmed.
//
// Операция атомарна по отношению к заказу: если хотя бы одну позицию списать
// не удалось, уже списанное возвращается на склад, статус остаётся pending,
// а вызывающий получает *InsufficientStockError.
func (o *Order) Confirm() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status != OrderStatusPending {
		return fmt.Errorf("%w: cannot confirm order %d in status %s", ErrInvalidState, o.ID, o.status)
	}

	applied := make([]OrderLine, 0, len(o.lines))
	for _, line := range o.lines {
		available, ok := line.Product.tryDecrease(line.Quantity)
		if !ok {
			for _, done := range applied {
				done.Product.restore(done.Quantity)
			}
			return &InsufficientStockError{
				ProductID: line.Product.ID,
				Requested: line.Quantity,
				Available: available,
			}
		}
		applied = append(applied, line)
	}

	o.status = OrderStatusConfirmed
	o.updatedAt = time.Now().UTC()
	return nil
}

// Cancel отменяет pending-заказ. Остатки не трогаются: до подтверждения они не списывались.
func (o *Order) Cancel() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status != OrderStatusPending {
		return fmt.Errorf("%w: cannot cancel order %d in status %s", ErrInvalidState, o.ID, o.status)
	}
	o.status = OrderStatusCancelled
	o.updatedAt = time.Now().UTC()
	return nil
}

// Status возвращает текущий статус заказа.
func (o *Order) Status() OrderStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Total возвращает сумму по текущим позициям.
func (o *Order) Total() Money {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.total
}

// Lines возвращает копию позиций заказа.
func (o *Order) Lines() []OrderLine {
	o.mu.Lock()
	defer o.mu.Unlock()

	lines := make([]OrderLine, len(o.lines))
	copy(lines, o.lines)
	return lines
}

// UpdatedAt возвращает время последнего изменения.
func (o *Order) UpdatedAt() time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.updatedAt
}

// References сообщает, есть ли в заказе позиция с указанным товаром.
func (o *Order) References(id ProductID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, line := range o.lines {
		if line.Product.ID == id {
			return true
		}
	}
	return false
}
