package app

import (
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/metrics"
	"github.com/vladislavdragonenkov/shop/internal/service/store"
	"github.com/vladislavdragonenkov/shop/internal/storage/memory"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Registerer    prometheus.Registerer
	Gatherer      prometheus.Gatherer
	StoreMetrics  *metrics.StoreMetrics
	OutboxMetrics *metrics.OutboxMetrics
	OutboxRepo    *memory.OutboxRepository
	TimelineRepo  domain.TimelineRepository
	Store         *store.Store
	Logger        *log.Entry
}

// NewDependencies создаёт магазин и его инфраструктуру в памяти процесса.
// Если registry nil, метрики регистрируются в глобальном реестре Prometheus.
func NewDependencies(logger *log.Entry, registry *prometheus.Registry) *Dependencies {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if registry != nil {
		registerer = registry
		gatherer = registry
	}

	storeMetrics := metrics.NewStoreMetricsWithRegisterer(registerer)
	outboxRepo := memory.NewOutboxRepository()
	timelineRepo := memory.NewTimelineRepository()

	shop := store.New(
		store.WithLogger(logger.WithField("layer", "store")),
		store.WithMetrics(storeMetrics),
		store.WithOutbox(outboxRepo),
		store.WithTimeline(timelineRepo),
	)

	return &Dependencies{
		Registerer:    registerer,
		Gatherer:      gatherer,
		StoreMetrics:  storeMetrics,
		OutboxMetrics: metrics.NewOutboxMetricsWithRegisterer(registerer),
		OutboxRepo:    outboxRepo,
		TimelineRepo:  timelineRepo,
		Store:         shop,
		Logger:        logger,
	}
}
