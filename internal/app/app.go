package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	healthcheck "github.com/vladislavdragonenkov/shop/internal/health"
	"github.com/vladislavdragonenkov/shop/internal/service/outbox"
	"github.com/vladislavdragonenkov/shop/internal/service/store"
	"github.com/vladislavdragonenkov/shop/internal/version"
)

// App связывает магазин, outbox worker и сетевые серверы.
type App struct {
	cfg        Config
	deps       *Dependencies
	logger     *log.Entry
	publishers publishers
	worker     *outbox.Worker
	health     *healthcheck.Handler

	httpSrv    *http.Server
	metricsSrv *http.Server
	grpcSrv    *grpc.Server
	grpcHealth *health.Server
}

// New собирает приложение. Если registry nil, используется глобальный реестр Prometheus.
func New(cfg Config, registry *prometheus.Registry) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := log.WithField("component", "app")
	deps := NewDependencies(logger, registry)
	pubs := initPublishers(cfg, logger)

	worker := outbox.NewWorker(
		deps.OutboxRepo,
		pubs.main,
		outbox.WithLogger(logger.WithField("component", "outbox-worker")),
		outbox.WithMetrics(deps.OutboxMetrics),
		outbox.WithDLQPublisher(pubs.dlq),
		outbox.WithPollInterval(cfg.OutboxPollInterval),
		outbox.WithBatchSize(cfg.OutboxBatchSize),
		outbox.WithMaxAttempts(cfg.OutboxMaxAttempts),
		outbox.WithRetryBaseDelay(cfg.OutboxRetryDelay),
	)

	healthHandler := healthcheck.NewHandler(version.Info().Version)
	healthHandler.RegisterChecker("outbox", healthcheck.NewBacklogChecker("outbox", cfg.OutboxMaxPending, func() (int, error) {
		stats, err := deps.OutboxRepo.Stats()
		return stats.PendingCount, err
	}))

	a := &App{
		cfg:        cfg,
		deps:       deps,
		logger:     logger,
		publishers: pubs,
		worker:     worker,
		health:     healthHandler,
		httpSrv: &http.Server{
			Handler:           newRouter(healthHandler, logger.WithField("layer", "http")),
			ReadHeaderTimeout: 5 * time.Second,
		},
		metricsSrv: &http.Server{
			Handler:           newMetricsRouter(deps.Gatherer, healthHandler),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
	if cfg.GRPCAddr != "" {
		a.grpcSrv, a.grpcHealth = newGRPCServer(deps.Registerer, logger.WithField("layer", "grpc"))
	}
	return a, nil
}

// Store возвращает магазин, обслуживаемый приложением.
func (a *App) Store() *store.Store {
	return a.deps.Store
}

// Run запускает приложение с глобальным реестром метрик и блокируется до отмены ctx.
func Run(ctx context.Context, cfg Config) error {
	a, err := New(cfg, nil)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

// Run открывает слушатели, запускает серверы и outbox worker.
// Возвращает ctx.Err() после штатной остановки или ошибку первого упавшего сервера.
func (a *App) Run(ctx context.Context) error {
	listeners, err := a.listen()
	if err != nil {
		return err
	}

	errCh := make(chan error, len(listeners))
	for _, l := range listeners {
		go func(l listener) {
			a.logger.WithField("addr", l.lis.Addr().String()).Infof("%s server listening", l.name)
			if err := l.serve(l.lis); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, grpc.ErrServerStopped) {
				errCh <- fmt.Errorf("%s server: %w", l.name, err)
			}
		}(l)
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		a.worker.Run(workerCtx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
		runErr = ctx.Err()
	case runErr = <-errCh:
		a.logger.WithError(runErr).Error("server failed")
	}

	a.shutdown()
	stopWorker()
	<-workerDone
	a.publishers.close(a.logger)

	return runErr
}

type listener struct {
	name  string
	lis   net.Listener
	serve func(net.Listener) error
}

func (a *App) listen() ([]listener, error) {
	type target struct {
		name  string
		addr  string
		serve func(net.Listener) error
	}
	targets := []target{
		{name: "http", addr: a.cfg.HTTPAddr, serve: a.httpSrv.Serve},
		{name: "metrics", addr: a.cfg.MetricsAddr, serve: a.metricsSrv.Serve},
	}
	if a.grpcSrv != nil {
		targets = append(targets, target{name: "grpc", addr: a.cfg.GRPCAddr, serve: a.grpcSrv.Serve})
	}

	listeners := make([]listener, 0, len(targets))
	for _, t := range targets {
		lis, err := net.Listen("tcp", t.addr)
		if err != nil {
			for _, opened := range listeners {
				_ = opened.lis.Close()
			}
			return nil, fmt.Errorf("listen %s on %s: %w", t.name, t.addr, err)
		}
		listeners = append(listeners, listener{name: t.name, lis: lis, serve: t.serve})
	}
	return listeners, nil
}

// shutdown останавливает серверы в пределах ShutdownTimeout.
func (a *App) shutdown() {
	timeout := a.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	if a.grpcSrv != nil {
		a.grpcHealth.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		stopped := make(chan struct{})
		go func() {
			a.grpcSrv.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(timeout):
			a.logger.Warn("grpc graceful stop timed out, forcing stop")
			a.grpcSrv.Stop()
		}
	}

	shutdownHTTP(a.httpSrv, timeout, a.logger)
	shutdownHTTP(a.metricsSrv, timeout, a.logger)
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, timeout time.Duration, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
