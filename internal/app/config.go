package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/shop/internal/messaging/kafka"
)

// Config описывает настройки запуска сервиса магазина.
type Config struct {
	HTTPAddr    string
	MetricsAddr string
	// GRPCAddr пустой, если gRPC health-сервер не нужен.
	GRPCAddr string

	// KafkaBrokers пустой, если события пишутся только в лог.
	KafkaBrokers  []string
	KafkaTopic    string
	KafkaDLQTopic string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int
	OutboxRetryDelay   time.Duration
	// OutboxMaxPending задаёт порог backlog, выше которого readiness становится degraded.
	OutboxMaxPending int

	ShutdownTimeout time.Duration
}

// DefaultConfig возвращает настройки по умолчанию.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:           ":8080",
		MetricsAddr:        ":9090",
		KafkaTopic:         kafka.TopicOrderEvents,
		KafkaDLQTopic:      kafka.TopicDeadLetterQueue,
		OutboxPollInterval: time.Second,
		OutboxBatchSize:    100,
		OutboxMaxAttempts:  3,
		OutboxRetryDelay:   50 * time.Millisecond,
		OutboxMaxPending:   1000,
		ShutdownTimeout:    5 * time.Second,
	}
}

// Validate проверяет обязательные поля.
func (c Config) Validate() error {
	var errs []error
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http addr is required"))
	}
	if c.MetricsAddr == "" {
		errs = append(errs, errors.New("metrics addr is required"))
	}
	if c.OutboxPollInterval <= 0 {
		errs = append(errs, fmt.Errorf("outbox poll interval must be positive, got %s", c.OutboxPollInterval))
	}
	if c.OutboxBatchSize <= 0 {
		errs = append(errs, fmt.Errorf("outbox batch size must be positive, got %d", c.OutboxBatchSize))
	}
	if c.OutboxMaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("outbox max attempts must be positive, got %d", c.OutboxMaxAttempts))
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		errs = append(errs, errors.New("kafka topic is required when brokers are set"))
	}
	return errors.Join(errs...)
}
