package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument означает некорректный аргумент (нулевое/отрицательное количество, отрицательная цена).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound возвращается, если сущность с указанным идентификатором не найдена.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID возвращается при повторной регистрации с занятым идентификатором.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrInvalidState означает недопустимый переход состояния (повторное подтверждение, покупка по неподтверждённому заказу).
	ErrInvalidState = errors.New("invalid state")
	// ErrInsufficientStock: на складе не хватило товара для подтверждения заказа.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError описывает позицию, которую не удалось зарезервировать при подтверждении.
type InsufficientStockError struct {
	ProductID ProductID
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// Is позволяет сравнивать ошибку с ErrInsufficientStock через errors.Is.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// IsInsufficientStock проверяет, является ли ошибка нехваткой товара.
func IsInsufficientStock(err error) bool {
	return errors.Is(err, ErrInsufficientStock)
}

// IsInvalidState проверяет, является ли ошибка недопустимым переходом состояния.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}
