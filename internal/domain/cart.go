package domain

import "fmt"

// CartItem описывает позицию корзины.
type CartItem struct {
	Product  *Product
	Quantity int
}

// Cart собирает товары до оформления заказа. Не потокобезопасна:
// корзина принадлежит одному покупателю.
type Cart struct {
	items []CartItem
}

// Add добавляет товар в корзину.
func (c *Cart) Add(product *Product, qty int) error {
	if product == nil {
		return fmt.Errorf("%w: product is required", ErrInvalidArgument)
	}
	if qty <= 0 {
		return fmt.Errorf("%w: qty must be greater than zero, got %d", ErrInvalidArgument, qty)
	}
	c.items = append(c.items, CartItem{Product: product, Quantity: qty})
	return nil
}

// Remove удаляет все позиции с указанным товаром.
func (c *Cart) Remove(id ProductID) {
	kept := c.items[:0]
	for _, item := range c.items {
		if item.Product.ID != id {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

// Items возвращает копию позиций корзины.
func (c *Cart) Items() []CartItem {
	items := make([]CartItem, len(c.items))
	copy(items, c.items)
	return items
}

// Total считает стоимость корзины.
func (c *Cart) Total() Money {
	var total Money
	for _, item := range c.items {
		total += item.Product.Price.Mul(item.Quantity)
	}
	return total
}

// Clear очищает корзину.
func (c *Cart) Clear() {
	c.items = nil
}

// Empty сообщает, пуста ли корзина.
func (c *Cart) Empty() bool {
	return len(c.items) == 0
}
