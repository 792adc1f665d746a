package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/HammerMeetNail/paddock/internal/logging"
)

const probeTimeout = 5 * time.Second

type HealthChecker interface {
	Health(ctx context.Context) error
}

// Dependency is a named backing service probed by the health endpoints.
type Dependency struct {
	Name    string
	Checker HealthChecker
}

type HealthHandler struct {
	deps []Dependency
	now  func() time.Time
}

func NewHealthHandler(deps ...Dependency) *HealthHandler {
	return &HealthHandler{deps: deps, now: time.Now}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp string            `json:"timestamp"`
}

func (h *HealthHandler) probe(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	checks := make(map[string]string, len(h.deps))
	healthy := true
	for _, dep := range h.deps {
		if err := dep.Checker.Health(ctx); err != nil {
			healthy = false
			checks[dep.Name] = "unhealthy: " + err.Error()
			continue
		}
		checks[dep.Name] = "healthy"
	}
	return checks, healthy
}

// Health reports every dependency, answering 503 when any of them fails.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks, healthy := h.probe(r.Context())
	resp := HealthResponse{
		Status:    "healthy",
		Checks:    checks,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK
	if !healthy {
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
		logger.Warn("health check failed", logging.Fields{"checks": checks})
	}
	writeJSON(w, status, resp)
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if _, healthy := h.probe(r.Context()); !healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Live only confirms the process is serving requests.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
