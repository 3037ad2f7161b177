package store

import (
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// CreatePayment создаёт платёж на сумму заказа.
// Платёж не связан с подтверждением заказа: порядок вызовов определяет вызывающий.
func (s *Store) CreatePayment(orderID domain.OrderID, method string) (*domain.Payment, error) {
	order, err := s.orders.Get(orderID)
	if err != nil {
		return nil, fmt.Errorf("create payment for order %d: %w", orderID, err)
	}

	payment, err := domain.NewPayment(uuid.NewString(), orderID, order.Total(), method)
	if err != nil {
		return nil, fmt.Errorf("create payment for order %d: %w", orderID, err)
	}

	s.paymentsMu.Lock()
	s.payments[payment.ID] = payment
	s.paymentsMu.Unlock()

	s.logger.WithFields(log.Fields{
		"order_id":   orderID,
		"payment_id": payment.ID,
		"amount":     payment.Amount.String(),
	}).Info("payment created")
	return payment, nil
}

// FindPayment возвращает платёж по ID.
func (s *Store) FindPayment(id string) (*domain.Payment, bool) {
	s.paymentsMu.RLock()
	defer s.paymentsMu.RUnlock()

	payment, ok := s.payments[id]
	return payment, ok
}

// CreateDelivery создаёт доставку заказа по указанному адресу.
func (s *Store) CreateDelivery(orderID domain.OrderID, address string) (*domain.Delivery, error) {
	if _, err := s.orders.Get(orderID); err != nil {
		return nil, fmt.Errorf("create delivery for order %d: %w", orderID, err)
	}
	if address == "" {
		return nil, fmt.Errorf("create delivery for order %d: %w: address is required", orderID, domain.ErrInvalidArgument)
	}

	delivery := domain.NewDelivery(uuid.NewString(), orderID, address)

	s.deliveriesMu.Lock()
	s.deliveries[delivery.ID] = delivery
	s.deliveriesMu.Unlock()

	s.logger.WithFields(log.Fields{
		"order_id":    orderID,
		"delivery_id": delivery.ID,
	}).Info("delivery created")
	return delivery, nil
}

// FindDelivery возвращает доставку по ID.
func (s *Store) FindDelivery(id string) (*domain.Delivery, bool) {
	s.deliveriesMu.RLock()
	defer s.deliveriesMu.RUnlock()

	delivery, ok := s.deliveries[id]
	return delivery, ok
}
