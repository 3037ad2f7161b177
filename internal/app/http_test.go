package app

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/shop/internal/health"
)

func TestRouter_Health(t *testing.T) {
	srv := httptest.NewServer(newRouter(healthcheck.NewHandler("test"), log.WithField("test", "http")))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestRouter_UnknownPath(t *testing.T) {
	srv := httptest.NewServer(newRouter(healthcheck.NewHandler("test"), log.WithField("test", "http")))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/orders")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_ReadyIsNotPublic(t *testing.T) {
	srv := httptest.NewServer(newRouter(healthcheck.NewHandler("test"), log.WithField("test", "http")))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ready")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsRouter_Ready(t *testing.T) {
	handler := healthcheck.NewHandler("test")
	handler.RegisterChecker("outbox", healthcheck.NewBacklogChecker("outbox", 1, func() (int, error) {
		return 0, errors.New("outbox unavailable")
	}))

	srv := httptest.NewServer(newMetricsRouter(prometheus.NewRegistry(), handler))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ready")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestMetricsRouter_ExposesStoreMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	deps := NewDependencies(log.WithField("test", "metrics"), registry)

	_, err := deps.Store.RegisterProduct(1, "Notebook", domain.MoneyFromFloat(3500))
	require.NoError(t, err)

	srv := httptest.NewServer(newMetricsRouter(deps.Gatherer, healthcheck.NewHandler("test")))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "shop_products_registered_total"), "store metrics must be exposed")
}
