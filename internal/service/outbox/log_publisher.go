package outbox

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// LogPublisher пишет события в лог. Используется, когда брокер не настроен.
type LogPublisher struct {
	logger *log.Entry
}

// NewLogPublisher создаёт publisher, пишущий события в logger.
func NewLogPublisher(logger *log.Entry) *LogPublisher {
	if logger == nil {
		logger = log.WithField("component", "outbox-log-publisher")
	}
	return &LogPublisher{logger: logger}
}

// Publish логирует событие и никогда не возвращает ошибку.
func (p *LogPublisher) Publish(event domain.OutboxMessage) error {
	p.logger.WithFields(log.Fields{
		"outbox_id":      event.ID,
		"aggregate_type": event.AggregateType,
		"aggregate_id":   event.AggregateID,
		"event_type":     event.EventType,
		"payload":        string(event.Payload),
	}).Info("order event published")
	return nil
}

var _ domain.OutboxPublisher = (*LogPublisher)(nil)
