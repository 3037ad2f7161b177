package health

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// Status представляет статус компонента
type Status string

const (
	StatusOK        Status = "ok"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// Check представляет результат проверки компонента
type Check struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Liveness - тело ответа GET /health.
type Liveness struct {
	Status Status `json:"status"`
}

// Report - подробный ответ GET /ready.
type Report struct {
	Status        Status           `json:"status"`
	Timestamp     time.Time        `json:"timestamp"`
	Checks        map[string]Check `json:"checks,omitempty"`
	Version       string           `json:"version,omitempty"`
	UptimeSeconds int64            `json:"uptime_seconds"`
}

// Checker проверяет состояние одного компонента.
type Checker interface {
	Check() Check
}

// Handler обслуживает liveness и readiness проверки.
type Handler struct {
	mu        sync.RWMutex
	checkers  map[string]Checker
	version   string
	startTime time.Time
}

// NewHandler создаёт health handler
func NewHandler(version string) *Handler {
	return &Handler{
		checkers:  make(map[string]Checker),
		version:   version,
		startTime: time.Now(),
	}
}

// RegisterChecker регистрирует проверку компонента для readiness.
func (h *Handler) RegisterChecker(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
}

// Routes монтирует GET /health на публичный chi-роутер.
// Readiness отдаётся отдельно, на служебном листенере рядом с /metrics.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.Liveness)
}

// Liveness всегда отвечает 200 и {"status":"ok"}, пока процесс жив.
func (h *Handler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Liveness{Status: StatusOK})
}

// Readiness выполняет зарегистрированные проверки. Хотя бы одна unhealthy даёт 503.
func (h *Handler) Readiness(w http.ResponseWriter, _ *http.Request) {
	report := h.Report()

	statusCode := http.StatusOK
	if report.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, report)
}

// Report выполняет все проверки и сводит их в общий статус.
func (h *Handler) Report() Report {
	h.mu.RLock()
	checkers := make(map[string]Checker, len(h.checkers))
	for k, v := range h.checkers {
		checkers[k] = v
	}
	h.mu.RUnlock()

	checks := make(map[string]Check, len(checkers))
	overall := StatusOK
	for name, checker := range checkers {
		check := checker.Check()
		checks[name] = check

		switch {
		case check.Status == StatusUnhealthy:
			overall = StatusUnhealthy
		case check.Status == StatusDegraded && overall == StatusOK:
			overall = StatusDegraded
		}
	}

	return Report{
		Status:        overall,
		Timestamp:     time.Now().UTC(),
		Checks:        checks,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// SimpleChecker оборачивает функцию проверки.
type SimpleChecker struct {
	name    string
	checkFn func() error
}

// NewSimpleChecker создаёт простую проверку
func NewSimpleChecker(name string, checkFn func() error) *SimpleChecker {
	return &SimpleChecker{
		name:    name,
		checkFn: checkFn,
	}
}

// Check выполняет проверку
func (c *SimpleChecker) Check() Check {
	start := time.Now()
	err := c.checkFn()
	duration := time.Since(start)

	if err != nil {
		return Check{
			Name:       c.name,
			Status:     StatusUnhealthy,
			Message:    err.Error(),
			DurationMs: duration.Milliseconds(),
		}
	}

	return Check{
		Name:       c.name,
		Status:     StatusOK,
		DurationMs: duration.Milliseconds(),
	}
}

// BacklogChecker переводит статус в degraded, когда backlog превышает порог.
type BacklogChecker struct {
	name      string
	threshold int
	pending   func() (int, error)
}

// NewBacklogChecker создаёт проверку размера очереди.
func NewBacklogChecker(name string, threshold int, pending func() (int, error)) *BacklogChecker {
	return &BacklogChecker{name: name, threshold: threshold, pending: pending}
}

// Check выполняет проверку
func (c *BacklogChecker) Check() Check {
	start := time.Now()
	count, err := c.pending()
	check := Check{Name: c.name, Status: StatusOK, DurationMs: time.Since(start).Milliseconds()}

	switch {
	case err != nil:
		check.Status = StatusUnhealthy
		check.Message = err.Error()
	case c.threshold > 0 && count > c.threshold:
		check.Status = StatusDegraded
		check.Message = "backlog above threshold"
	}
	return check
}
