package kafka

import (
	"encoding/json"
	"fmt"
	"time"
)

// Topics для Kafka
const (
	TopicOrderEvents     = "shop.order.events"
	TopicDeadLetterQueue = "shop.order.events.dlq"
)

// Kafka headers сообщения
const (
	HeaderEventType     = "x-event-type"
	HeaderAggregateType = "x-aggregate-type"
	HeaderOutboxID      = "x-outbox-id"
)

// Envelope оборачивает outbox-сообщение при публикации в topic.
type Envelope struct {
	ID            string          `json:"id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	PublishedAt   time.Time       `json:"published_at"`
}

// DecodeEnvelope разбирает значение Kafka-сообщения.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if envelope.EventType == "" {
		return Envelope{}, fmt.Errorf("decode envelope: empty event type")
	}
	return envelope, nil
}
