package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/shop/internal/service/outbox"
)

// publishers объединяет основной и DLQ паблишеры outbox.
type publishers struct {
	main     domain.OutboxPublisher
	dlq      domain.OutboxPublisher
	producer *kafka.Producer
}

// initPublishers подключает Kafka, если заданы брокеры. Без брокеров или при ошибке
// подключения события пишутся в лог, сервис продолжает работу.
func initPublishers(cfg Config, logger *log.Entry) publishers {
	fallback := publishers{
		main: outbox.NewLogPublisher(logger.WithField("component", "outbox-log-publisher")),
	}
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("kafka brokers are not set, order events go to the log")
		return fallback
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return fallback
	}
	logger.WithField("brokers", cfg.KafkaBrokers).Info("kafka producer initialized")

	result := publishers{
		main:     kafka.NewOutboxPublisher(producer, cfg.KafkaTopic),
		producer: producer,
	}
	if cfg.KafkaDLQTopic != "" {
		result.dlq = kafka.NewOutboxPublisher(producer, cfg.KafkaDLQTopic)
	}
	return result
}

// close закрывает Kafka producer, если он был создан.
func (p publishers) close(logger *log.Entry) {
	if p.producer == nil {
		return
	}
	if err := p.producer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka producer")
		return
	}
	logger.Info("kafka producer closed")
}
