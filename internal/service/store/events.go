package store

import (
	"encoding/json"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// appendTimeline записывает событие в историю заказа. Ошибка хранилища не влияет на результат операции.
func (s *Store) appendTimeline(orderID domain.OrderID, eventType, reason string) {
	if s.timeline == nil {
		return
	}
	event := domain.TimelineEvent{
		OrderID:  orderID,
		Type:     eventType,
		Reason:   reason,
		Occurred: time.Now().UTC(),
	}
	if err := s.timeline.Append(event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id": orderID,
			"type":     eventType,
		}).Warn("failed to append timeline event")
	}
}

// enqueueEvent кладёт событие заказа в outbox для асинхронной публикации.
func (s *Store) enqueueEvent(order *domain.Order, eventType domain.EventType, reason string) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(domain.OrderEvent{
		EventType:  eventType,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Status:     order.Status(),
		TotalMinor: int64(order.Total()),
		Reason:     reason,
		Timestamp:  time.Now().UTC(),
	})
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to marshal order event")
		return
	}

	_, err = s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: domain.AggregateTypeOrder,
		AggregateID:   strconv.FormatInt(int64(order.ID), 10),
		EventType:     string(eventType),
		Payload:       payload,
	})
	if err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id":   order.ID,
			"event_type": eventType,
		}).Warn("failed to enqueue order event")
	}
}
