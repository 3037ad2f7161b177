package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	h.Routes(r)
	r.Get("/ready", h.Readiness)
	return r
}

func TestLiveness_ExactBody(t *testing.T) {
	handler := NewHandler("v1.0.0")
	// Проверки readiness не влияют на liveness.
	handler.RegisterChecker("broken", NewSimpleChecker("broken", func() error {
		return errors.New("down")
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	newRouter(handler).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json, got %q", ct)
	}
	if got := w.Body.String(); got != "{\"status\":\"ok\"}\n" {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestRoutes_OnlyHealth(t *testing.T) {
	r := chi.NewRouter()
	NewHandler("v1.0.0").Routes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected /ready to be absent from public routes, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for /health, got %d", w.Code)
	}
}

func TestLiveness_MethodAndPath(t *testing.T) {
	router := newRouter(NewHandler("v1.0.0"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for POST, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown path, got %d", w.Code)
	}
}

func TestReadiness_Healthy(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.RegisterChecker("store", NewSimpleChecker("store", func() error {
		return nil
	}))

	w := httptest.NewRecorder()
	newRouter(handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var report Report
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if report.Status != StatusOK {
		t.Errorf("expected status ok, got %s", report.Status)
	}
	if report.Version != "v1.0.0" {
		t.Errorf("expected version v1.0.0, got %s", report.Version)
	}
	if len(report.Checks) != 1 {
		t.Errorf("expected 1 check, got %d", len(report.Checks))
	}
}

func TestReadiness_Unhealthy(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.RegisterChecker("kafka", NewSimpleChecker("kafka", func() error {
		return errors.New("service unavailable")
	}))

	w := httptest.NewRecorder()
	newRouter(handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}

	var report Report
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if report.Checks["kafka"].Message != "service unavailable" {
		t.Errorf("unexpected check message %q", report.Checks["kafka"].Message)
	}
}

func TestBacklogChecker(t *testing.T) {
	tests := []struct {
		name  string
		count int
		err   error
		want  Status
	}{
		{name: "below threshold", count: 5, want: StatusOK},
		{name: "above threshold", count: 11, want: StatusDegraded},
		{name: "error", err: errors.New("boom"), want: StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewBacklogChecker("outbox", 10, func() (int, error) {
				return tt.count, tt.err
			})
			if got := checker.Check().Status; got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestReport_DegradedDoesNotFailReadiness(t *testing.T) {
	handler := NewHandler("dev")
	handler.RegisterChecker("outbox", NewBacklogChecker("outbox", 1, func() (int, error) {
		return 2, nil
	}))

	w := httptest.NewRecorder()
	newRouter(handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for degraded, got %d", w.Code)
	}
	if report := handler.Report(); report.Status != StatusDegraded {
		t.Fatalf("expected degraded, got %s", report.Status)
	}
}
