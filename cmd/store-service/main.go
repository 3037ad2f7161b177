package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/app"
	"github.com/vladislavdragonenkov/shop/internal/version"
)

const (
	envHTTPAddr           = "STORE_HTTP_ADDR"
	envMetricsAddr        = "STORE_METRICS_ADDR"
	envGRPCAddr           = "STORE_GRPC_ADDR"
	envKafkaBrokers       = "KAFKA_BROKERS"
	envKafkaTopic         = "STORE_KAFKA_TOPIC"
	envKafkaDLQTopic      = "STORE_KAFKA_DLQ_TOPIC"
	envOutboxPollInterval = "STORE_OUTBOX_POLL_INTERVAL"
	envOutboxBatchSize    = "STORE_OUTBOX_BATCH_SIZE"
	envOutboxMaxAttempts  = "STORE_OUTBOX_MAX_ATTEMPTS"
	envOutboxRetryDelay   = "STORE_OUTBOX_RETRY_DELAY"
	envOutboxMaxPending   = "STORE_OUTBOX_MAX_PENDING"
	envLogLevel           = "STORE_LOG_LEVEL"
)

type envLookup func(key string) (string, bool)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger(level log.Level) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(level)
}

// readConfigFromEnv собирает конфигурацию из окружения. Некорректные значения
// заменяются значениями по умолчанию и возвращаются как предупреждения.
func readConfigFromEnv(lookup envLookup) (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string
	warn := func(key, value string, err error) {
		warnings = append(warnings, fmt.Sprintf("%s=%q ignored: %v", key, value, err))
	}

	readString := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	readInt := func(key string, dst *int, valid func(int) bool, rule string) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		parsed, err := parseInt(v, valid, rule)
		if err != nil {
			warn(key, v, err)
			return
		}
		*dst = parsed
	}
	readDuration := func(key string, dst *time.Duration, valid func(time.Duration) bool, rule string) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		parsed, err := parseDuration(v, valid, rule)
		if err != nil {
			warn(key, v, err)
			return
		}
		*dst = parsed
	}

	readString(envHTTPAddr, &cfg.HTTPAddr)
	readString(envMetricsAddr, &cfg.MetricsAddr)
	readString(envGRPCAddr, &cfg.GRPCAddr)
	readString(envKafkaTopic, &cfg.KafkaTopic)
	readString(envKafkaDLQTopic, &cfg.KafkaDLQTopic)
	if v, ok := lookup(envKafkaBrokers); ok {
		cfg.KafkaBrokers = parseBrokers(v)
	}

	positive := func(v int) bool { return v > 0 }
	readDuration(envOutboxPollInterval, &cfg.OutboxPollInterval, func(v time.Duration) bool { return v > 0 }, "must be > 0")
	readInt(envOutboxBatchSize, &cfg.OutboxBatchSize, positive, "must be > 0")
	readInt(envOutboxMaxAttempts, &cfg.OutboxMaxAttempts, positive, "must be > 0")
	readDuration(envOutboxRetryDelay, &cfg.OutboxRetryDelay, func(v time.Duration) bool { return v >= 0 }, "must be >= 0")
	readInt(envOutboxMaxPending, &cfg.OutboxMaxPending, func(v int) bool { return v >= 0 }, "must be >= 0")

	return cfg, warnings
}

// readLogLevel возвращает уровень логирования, по умолчанию info.
func readLogLevel(lookup envLookup) (log.Level, error) {
	v, ok := lookup(envLogLevel)
	if !ok || strings.TrimSpace(v) == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(strings.TrimSpace(v))
	if err != nil {
		return log.InfoLevel, err
	}
	return level, nil
}

func parseInt(raw string, valid func(int) bool, rule string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if !valid(value) {
		return 0, errors.New(rule)
	}
	return value, nil
}

func parseDuration(raw string, valid func(time.Duration) bool, rule string) (time.Duration, error) {
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if !valid(value) {
		return 0, errors.New(rule)
	}
	return value, nil
}

func parseBrokers(raw string) []string {
	var brokers []string
	for _, part := range strings.Split(raw, ",") {
		if broker := strings.TrimSpace(part); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

func main() {
	level, levelErr := readLogLevel(os.LookupEnv)
	setupLogger(level)
	if levelErr != nil {
		log.WithError(levelErr).Warn("invalid log level, using info")
	}

	cfg, warnings := readConfigFromEnv(os.LookupEnv)
	for _, warning := range warnings {
		log.Warn(warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"http_addr":    cfg.HTTPAddr,
		"metrics_addr": cfg.MetricsAddr,
		"grpc_addr":    cfg.GRPCAddr,
		"build":        version.String(),
	}).Info("запускаем store-service")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("store-service остановлен")
}
