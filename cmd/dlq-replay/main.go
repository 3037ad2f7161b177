package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/messaging/kafka"
)

type config struct {
	brokers []string
	replay  kafka.ReplayOptions
}

// parseConfig разбирает флаги. Брокеры берутся из KAFKA_BROKERS, если флаг не задан.
func parseConfig(args []string, lookup func(string) (string, bool), output io.Writer) (config, error) {
	fs := flag.NewFlagSet("dlq-replay", flag.ContinueOnError)
	fs.SetOutput(output)

	var (
		brokersRaw string
		cfg        config
	)
	fs.StringVar(&brokersRaw, "brokers", "", "Kafka brokers as comma-separated list (fallback: KAFKA_BROKERS)")
	fs.StringVar(&cfg.replay.SourceTopic, "source-topic", kafka.TopicDeadLetterQueue, "DLQ source topic")
	fs.StringVar(&cfg.replay.TargetTopic, "target-topic", kafka.TopicOrderEvents, "target topic for replay")
	fs.IntVar(&cfg.replay.Limit, "limit", 100, "max number of messages to scan")
	fs.BoolVar(&cfg.replay.Execute, "execute", false, "publish messages; default is dry-run")
	fs.BoolVar(&cfg.replay.FromNewest, "from-newest", false, "scan latest messages first (bounded by limit)")
	fs.DurationVar(&cfg.replay.IdleTimeout, "idle-timeout", 2*time.Second, "idle timeout per partition")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	if strings.TrimSpace(brokersRaw) == "" {
		brokersRaw, _ = lookup("KAFKA_BROKERS")
	}
	for _, part := range strings.Split(brokersRaw, ",") {
		if broker := strings.TrimSpace(part); broker != "" {
			cfg.brokers = append(cfg.brokers, broker)
		}
	}

	switch {
	case len(cfg.brokers) == 0:
		return config{}, errors.New("kafka brokers are required (-brokers or KAFKA_BROKERS)")
	case strings.TrimSpace(cfg.replay.SourceTopic) == "":
		return config{}, errors.New("source-topic is required")
	case strings.TrimSpace(cfg.replay.TargetTopic) == "":
		return config{}, errors.New("target-topic is required")
	case cfg.replay.Limit <= 0:
		return config{}, errors.New("limit must be > 0")
	case cfg.replay.IdleTimeout <= 0:
		return config{}, errors.New("idle-timeout must be > 0")
	}
	return cfg, nil
}

func run(ctx context.Context, cfg config) error {
	consumerConfig := sarama.NewConfig()
	consumerConfig.Consumer.Return.Errors = true

	client, err := sarama.NewClient(cfg.brokers, consumerConfig)
	if err != nil {
		return fmt.Errorf("create kafka client: %w", err)
	}
	defer func() { _ = client.Close() }()

	consumer, err := sarama.NewConsumerFromClient(client)
	if err != nil {
		return fmt.Errorf("create kafka consumer: %w", err)
	}
	defer func() { _ = consumer.Close() }()

	var producer *kafka.Producer
	if cfg.replay.Execute {
		producer, err = kafka.NewProducer(cfg.brokers)
		if err != nil {
			return err
		}
		defer func() { _ = producer.Close() }()
	}

	replayer, err := kafka.NewReplayer(client, consumer, producer, cfg.replay)
	if err != nil {
		return err
	}
	_, err = replayer.Run(ctx)
	return err
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	cfg, err := parseConfig(os.Args[1:], os.LookupEnv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.WithError(err).Fatal("invalid arguments")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"source_topic": cfg.replay.SourceTopic,
		"target_topic": cfg.replay.TargetTopic,
		"limit":        cfg.replay.Limit,
		"execute":      cfg.replay.Execute,
	}).Info("starting dlq replay")

	if err := run(ctx, cfg); err != nil {
		log.WithError(err).Fatal("dlq replay failed")
	}
}
