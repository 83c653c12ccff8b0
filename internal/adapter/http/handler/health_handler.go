package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/gobudget/internal/usecase"
)

const readinessTimeout = 5 * time.Second

// HealthHandler handles health check requests.
type HealthHandler struct {
	backend string
	store   usecase.HealthChecker
}

// NewHealthHandler creates a new HealthHandler. store may be nil for
// backends with nothing to ping.
func NewHealthHandler(backend string, store usecase.HealthChecker) *HealthHandler {
	return &HealthHandler{
		backend: backend,
		store:   store,
	}
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 if the store backend answers.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, h.backend+" unhealthy", err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ready",
		h.backend: "ok",
	})
}
