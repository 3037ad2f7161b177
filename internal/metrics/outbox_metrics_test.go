package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestOutboxMetrics(t *testing.T) {
	m := NewOutboxMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordPublish(PublishResultSent)
	m.RecordPublish(PublishResultSent)
	m.RecordPublish(PublishResultRetryError)
	m.SetBacklog(3, 2*time.Second)

	if got := testutil.ToFloat64(m.publishAttempts.WithLabelValues(PublishResultSent)); got != 2 {
		t.Errorf("expected 2 sent attempts, got %v", got)
	}
	if got := testutil.ToFloat64(m.pendingRecords); got != 3 {
		t.Errorf("expected 3 pending records, got %v", got)
	}
	if got := testutil.ToFloat64(m.oldestPendingAge); got != 2 {
		t.Errorf("expected oldest age 2s, got %v", got)
	}

	m.SetBacklog(0, -time.Second)
	if got := testutil.ToFloat64(m.oldestPendingAge); got != 0 {
		t.Errorf("expected negative age to clamp to 0, got %v", got)
	}
}
