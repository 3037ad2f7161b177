package kafka

import (
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

func TestOutboxPublisher_Publish(t *testing.T) {
	t.Parallel()

	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		envelope, err := DecodeEnvelope(val)
		if err != nil {
			return err
		}
		assert.Equal(t, "outbox-1", envelope.ID)
		assert.Equal(t, "42", envelope.AggregateID)
		assert.Equal(t, string(domain.EventTypeOrderConfirmed), envelope.EventType)
		assert.JSONEq(t, `{"status":"confirmed"}`, string(envelope.Payload))
		return nil
	})

	publisher := NewOutboxPublisher(NewProducerFromSync(mockProducer, nil), TopicOrderEvents)

	err := publisher.Publish(domain.OutboxMessage{
		ID:            "outbox-1",
		AggregateType: domain.AggregateTypeOrder,
		AggregateID:   "42",
		EventType:     string(domain.EventTypeOrderConfirmed),
		Payload:       []byte(`{"status":"confirmed"}`),
	})
	require.NoError(t, err)
	require.NoError(t, mockProducer.Close())
}

func TestOutboxPublisher_PublishProducerError(t *testing.T) {
	t.Parallel()

	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := NewOutboxPublisher(NewProducerFromSync(mockProducer, nil), TopicOrderEvents)

	err := publisher.Publish(domain.OutboxMessage{
		ID:            "outbox-2",
		AggregateType: domain.AggregateTypeOrder,
		AggregateID:   "43",
		EventType:     string(domain.EventTypeOrderCanceled),
		Payload:       []byte(`{"status":"cancelled"}`),
	})
	require.Error(t, err)
	require.NoError(t, mockProducer.Close())
}

func TestOutboxPublisher_DefaultTopic(t *testing.T) {
	t.Parallel()

	publisher := NewOutboxPublisher(nil, "")
	assert.Equal(t, TopicOrderEvents, publisher.Topic())
}

func TestOutboxPublisher_PublishNilProducer(t *testing.T) {
	t.Parallel()

	publisher := NewOutboxPublisher(nil, TopicOrderEvents)
	require.Error(t, publisher.Publish(domain.OutboxMessage{ID: "outbox-3"}))
}
