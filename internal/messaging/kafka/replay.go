package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// ErrNotReplayable означает, что сообщение DLQ нельзя вернуть в основной topic.
var ErrNotReplayable = errors.New("dlq message is not replayable")

// ReplayOptions задаёт параметры повторной публикации из DLQ.
type ReplayOptions struct {
	SourceTopic string
	TargetTopic string
	Limit       int
	// Execute false означает dry-run: кандидаты только логируются.
	Execute     bool
	FromNewest  bool
	IdleTimeout time.Duration
}

// ReplayStats подводит итоги прохода по DLQ.
type ReplayStats struct {
	Processed int
	Replayed  int
	Skipped   int
}

// OffsetClient отдаёт партиции и границы offset'ов topic'а.
type OffsetClient interface {
	GetOffset(topic string, partition int32, time int64) (int64, error)
	Partitions(topic string) ([]int32, error)
}

// PartitionConsumerSource открывает чтение одной партиции. Реализуется sarama.Consumer.
type PartitionConsumerSource interface {
	ConsumePartition(topic string, partition int32, offset int64) (sarama.PartitionConsumer, error)
}

// Replayer возвращает события заказов из DLQ в основной topic.
type Replayer struct {
	client   OffsetClient
	consumer PartitionConsumerSource
	producer *Producer
	opts     ReplayOptions
	logger   *log.Entry
}

// NewReplayer создаёт Replayer. producer может быть nil в режиме dry-run.
func NewReplayer(client OffsetClient, consumer PartitionConsumerSource, producer *Producer, opts ReplayOptions) (*Replayer, error) {
	if client == nil || consumer == nil {
		return nil, fmt.Errorf("kafka client and consumer are required")
	}
	if opts.Execute && producer == nil {
		return nil, fmt.Errorf("producer is required in execute mode")
	}
	if opts.SourceTopic == "" {
		opts.SourceTopic = TopicDeadLetterQueue
	}
	if opts.TargetTopic == "" {
		opts.TargetTopic = TopicOrderEvents
	}
	if opts.Limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0")
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 2 * time.Second
	}

	return &Replayer{
		client:   client,
		consumer: consumer,
		producer: producer,
		opts:     opts,
		logger:   log.WithField("component", "dlq-replayer"),
	}, nil
}

// Run обходит партиции DLQ по возрастанию номера, пока не наберёт Limit сообщений.
func (r *Replayer) Run(ctx context.Context) (ReplayStats, error) {
	var total ReplayStats

	partitions, err := r.client.Partitions(r.opts.SourceTopic)
	if err != nil {
		return total, fmt.Errorf("get partitions for topic %s: %w", r.opts.SourceTopic, err)
	}
	sort.Slice(partitions, func(i, j int) bool { return partitions[i] < partitions[j] })

	for _, partition := range partitions {
		remaining := r.opts.Limit - total.Processed
		if remaining <= 0 {
			break
		}

		stats, err := r.replayPartition(ctx, partition, remaining)
		total.Processed += stats.Processed
		total.Replayed += stats.Replayed
		total.Skipped += stats.Skipped
		if err != nil {
			return total, err
		}
	}

	r.logger.WithFields(log.Fields{
		"execute":   r.opts.Execute,
		"processed": total.Processed,
		"replayed":  total.Replayed,
		"skipped":   total.Skipped,
	}).Info("dlq replay finished")
	return total, nil
}

func (r *Replayer) replayPartition(ctx context.Context, partition int32, limit int) (ReplayStats, error) {
	var stats ReplayStats
	topic := r.opts.SourceTopic

	oldest, err := r.client.GetOffset(topic, partition, sarama.OffsetOldest)
	if err != nil {
		return stats, fmt.Errorf("get oldest offset for partition %d: %w", partition, err)
	}
	newest, err := r.client.GetOffset(topic, partition, sarama.OffsetNewest)
	if err != nil {
		return stats, fmt.Errorf("get newest offset for partition %d: %w", partition, err)
	}
	if newest <= oldest {
		return stats, nil
	}

	start := oldest
	if r.opts.FromNewest {
		start = max(newest-int64(limit), oldest)
	}

	pc, err := r.consumer.ConsumePartition(topic, partition, start)
	if err != nil {
		return stats, fmt.Errorf("consume partition %d: %w", partition, err)
	}
	defer func() { _ = pc.Close() }()

	idle := time.NewTimer(r.opts.IdleTimeout)
	defer idle.Stop()

	for stats.Processed < limit {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		case <-idle.C:
			return stats, nil
		case cerr := <-pc.Errors():
			if cerr != nil {
				return stats, fmt.Errorf("partition %d consumer error: %w", partition, cerr)
			}
		case msg, ok := <-pc.Messages():
			if !ok || msg == nil || msg.Offset >= newest {
				return stats, nil
			}
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(r.opts.IdleTimeout)

			stats.Processed++
			if err := r.replayMessage(msg); err != nil {
				if errors.Is(err, ErrNotReplayable) {
					stats.Skipped++
					r.logger.WithError(err).WithFields(log.Fields{
						"partition": msg.Partition,
						"offset":    msg.Offset,
					}).Warn("skip dlq message")
					continue
				}
				return stats, err
			}
			stats.Replayed++

			if msg.Offset+1 >= newest {
				return stats, nil
			}
		}
	}
	return stats, nil
}

func (r *Replayer) replayMessage(msg *sarama.ConsumerMessage) error {
	envelope, err := ExtractDeadLetter(msg.Value)
	if err != nil {
		return err
	}
	key := envelope.AggregateID
	if key == "" {
		key = envelope.ID
	}

	if !r.opts.Execute {
		r.logger.WithFields(log.Fields{
			"partition":    msg.Partition,
			"offset":       msg.Offset,
			"target_topic": r.opts.TargetTopic,
			"key":          key,
			"event_type":   envelope.EventType,
		}).Info("dlq replay candidate")
		return nil
	}

	if err := r.producer.PublishEvent(r.opts.TargetTopic, key, envelope,
		Header{Key: HeaderEventType, Value: envelope.EventType},
		Header{Key: HeaderAggregateType, Value: envelope.AggregateType},
		Header{Key: HeaderOutboxID, Value: envelope.ID},
	); err != nil {
		return fmt.Errorf("publish replay message: %w", err)
	}
	return nil
}

// ExtractDeadLetter восстанавливает исходный конверт события из сообщения DLQ.
func ExtractDeadLetter(value []byte) (Envelope, error) {
	outer, err := DecodeEnvelope(value)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrNotReplayable, err)
	}

	var letter domain.DeadLetter
	if err := json.Unmarshal(outer.Payload, &letter); err != nil {
		return Envelope{}, fmt.Errorf("%w: decode dead letter: %v", ErrNotReplayable, err)
	}
	if len(letter.Payload) == 0 || string(letter.Payload) == "null" {
		return Envelope{}, fmt.Errorf("%w: dead letter has no original payload", ErrNotReplayable)
	}

	return Envelope{
		ID:            firstNonEmpty(letter.OutboxID, outer.ID),
		AggregateType: firstNonEmpty(letter.AggregateType, outer.AggregateType),
		AggregateID:   firstNonEmpty(letter.AggregateID, outer.AggregateID),
		EventType:     firstNonEmpty(letter.EventType, outer.EventType),
		Payload:       letter.Payload,
		PublishedAt:   time.Now().UTC(),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
