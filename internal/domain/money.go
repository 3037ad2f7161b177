package domain

import (
	"fmt"
	"math"
)

// Money хранит сумму в минимальных денежных единицах (центах).
type Money int64

// MoneyFromFloat переводит десятичную сумму в Money с округлением до цента.
func MoneyFromFloat(v float64) Money {
	return Money(math.Round(v * 100))
}

// Mul возвращает сумму, умноженную на количество.
func (m Money) Mul(qty int) Money {
	return m * Money(qty)
}

// Float возвращает сумму в основных единицах.
func (m Money) Float() float64 {
	return float64(m) / 100
}

// String форматирует сумму с двумя знаками после запятой: "4200.00".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
