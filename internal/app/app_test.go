package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.MetricsAddr = "127.0.0.1:0"
	cfg.GRPCAddr = "127.0.0.1:0"
	cfg.OutboxPollInterval = 10 * time.Millisecond
	cfg.ShutdownTimeout = time.Second
	return cfg
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HTTPAddr = ""

	_, err := New(cfg, prometheus.NewRegistry())
	require.Error(t, err)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	a, err := New(testConfig(), prometheus.NewRegistry())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- a.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled), "unexpected error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
}

func TestApp_RunFailsOnInvalidAddress(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPAddr = "127.0.0.1:99999"

	a, err := New(cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	require.Error(t, a.Run(context.Background()))
}

func TestApp_WorkerDrainsOrderEvents(t *testing.T) {
	a, err := New(testConfig(), prometheus.NewRegistry())
	require.NoError(t, err)

	shop := a.Store()
	product, err := shop.RegisterProduct(1, "Notebook", domain.MoneyFromFloat(3500))
	require.NoError(t, err)
	require.NoError(t, shop.SetStock(product.ID, 5))
	_, err = shop.RegisterCustomer(1, "Ana", "ana@example.com")
	require.NoError(t, err)

	order, err := shop.CreateOrder(1)
	require.NoError(t, err)
	require.NoError(t, shop.AddLine(order.ID, 1, 2))
	_, err = shop.Checkout(order.ID)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- a.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		stats, err := a.deps.OutboxRepo.Stats()
		return err == nil && stats.PendingCount == 0
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
