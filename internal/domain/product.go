package domain

import (
	"fmt"
	"sync"
)

// ProductID задаётся вызывающей стороной и уникален в пределах магазина.
type ProductID int64

// Product описывает товар и его складской остаток.
//
// Все операции над остатком выполняются под мьютексом конкретного товара:
// проверка и изменение остатка образуют одну критическую секцию.
type Product struct {
	ID    ProductID
	Name  string
	Price Money

	mu    sync.Mutex
	stock int
}

// NewProduct создаёт товар с нулевым остатком.
func NewProduct(id ProductID, name string, price Money) (*Product, error) {
	if price < 0 {
		return nil, fmt.Errorf("%w: price must be non-negative", ErrInvalidArgument)
	}
	return &Product{ID: id, Name: name, Price: price}, nil
}

// Stock возвращает текущий остаток.
func (p *Product) Stock() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stock
}

// SetStock безусловно выставляет остаток.
func (p *Product) SetStock(qty int) error {
	if qty < 0 {
		return fmt.Errorf("%w: stock must be non-negative, got %d", ErrInvalidArgument, qty)
	}
	p.mu.Lock()
	p.stock = qty
	p.mu.Unlock()
	return nil
}

// IncreaseStock увеличивает остаток на qty.
func (p *Product) IncreaseStock(qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: qty must be greater than zero, got %d", ErrInvalidArgument, qty)
	}
	p.mu.Lock()
	p.stock += qty
	p.mu.Unlock()
	return nil
}

// DecreaseStock списывает qty, если остатка хватает, и сообщает, было ли списание.
func (p *Product) DecreaseStock(qty int) (bool, error) {
	if qty <= 0 {
		return false, fmt.Errorf("%w: qty must be greater than zero, got %d", ErrInvalidArgument, qty)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stock < qty {
		return false, nil
	}
	p.stock -= qty
	return true, nil
}

// HasAvailableStock проверяет, что на складе есть хотя бы qty единиц.
func (p *Product) HasAvailableStock(qty int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stock >= qty
}

// tryDecrease списывает qty и возвращает остаток, который видел вызов.
func (p *Product) tryDecrease(qty int) (available int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stock < qty {
		return p.stock, false
	}
	p.stock -= qty
	return p.stock + qty, true
}

// restore возвращает ранее списанное количество (откат подтверждения).
func (p *Product) restore(qty int) {
	p.mu.Lock()
	p.stock += qty
	p.mu.Unlock()
}
