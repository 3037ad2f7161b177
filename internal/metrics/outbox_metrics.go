package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Результаты попытки публикации из outbox.
const (
	PublishResultSent       = "sent"
	PublishResultRetryError = "retry_error"
	PublishResultFailed     = "failed"
	PublishResultDLQFailed  = "dlq_failed"
)

// OutboxMetrics описывает публикацию событий из outbox и размер backlog.
type OutboxMetrics struct {
	publishAttempts  *prometheus.CounterVec
	pendingRecords   prometheus.Gauge
	oldestPendingAge prometheus.Gauge
}

// NewOutboxMetricsWithRegisterer создаёт метрики outbox в указанном реестре.
func NewOutboxMetricsWithRegisterer(registerer prometheus.Registerer) *OutboxMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	return &OutboxMetrics{
		publishAttempts: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "shop_outbox_publish_attempts_total",
			Help: "Total number of outbox publish attempts grouped by result.",
		}, []string{"result"}),
		pendingRecords: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "shop_outbox_pending_records",
			Help: "Current number of pending records in the outbox.",
		}),
		oldestPendingAge: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "shop_outbox_oldest_pending_age_seconds",
			Help: "Age in seconds of the oldest pending outbox record.",
		}),
	}
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge); ok {
				return existing
			}
		}
		panic(err)
	}
	return collector
}

// RecordPublish учитывает попытку публикации с указанным результатом.
func (m *OutboxMetrics) RecordPublish(result string) {
	m.publishAttempts.WithLabelValues(result).Inc()
}

// SetBacklog выставляет размер backlog и возраст самого старого сообщения.
func (m *OutboxMetrics) SetBacklog(pending int, oldestAge time.Duration) {
	m.pendingRecords.Set(float64(pending))
	if oldestAge < 0 {
		oldestAge = 0
	}
	m.oldestPendingAge.Set(oldestAge.Seconds())
}
