package domain

import (
	"encoding/json"
	"time"
)

// EventType определяет тип события жизненного цикла заказа.
type EventType string

const (
	EventTypeOrderCreated         EventType = "order.created"
	EventTypeOrderConfirmed       EventType = "order.confirmed"
	EventTypeOrderCanceled        EventType = "order.canceled"
	EventTypeOrderConfirmRejected EventType = "order.confirm_rejected"
)

// AggregateTypeOrder используется в outbox-сообщениях о заказах.
const AggregateTypeOrder = "order"

// OrderEvent сериализуется в payload outbox-сообщения.
type OrderEvent struct {
	EventType  EventType   `json:"event_type"`
	OrderID    OrderID     `json:"order_id"`
	CustomerID CustomerID  `json:"customer_id"`
	Status     OrderStatus `json:"status"`
	TotalMinor int64       `json:"total_minor"`
	Reason     string      `json:"reason,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// DeadLetter описывает событие, которое не удалось опубликовать после всех попыток.
type DeadLetter struct {
	OutboxID       string          `json:"outbox_id"`
	AggregateType  string          `json:"aggregate_type"`
	AggregateID    string          `json:"aggregate_id"`
	EventType      string          `json:"event_type"`
	Payload        json.RawMessage `json:"payload"`
	PublishError   string          `json:"publish_error"`
	DLQPublishedAt time.Time       `json:"dlq_published_at"`
}
