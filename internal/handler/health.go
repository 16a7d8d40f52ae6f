package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/aashishkarki002/tenant-management-sub004/internal/logging"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store   pinger
	driver  string
	timeout time.Duration
}

func NewHealthHandler(store pinger, driver string) *HealthHandler {
	return &HealthHandler{store: store, driver: driver, timeout: 2 * time.Second}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	storeStatus := "ok"
	httpStatus := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		logging.FromContext(r.Context()).Warn("readiness check failed: store unreachable", "driver", h.driver, "error", err)
		storeStatus = "down"
		httpStatus = http.StatusServiceUnavailable
	}

	overallStatus := "ok"
	if httpStatus != http.StatusOK {
		overallStatus = "down"
	}

	RespondJSON(w, httpStatus, map[string]any{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks": map[string]string{
			h.driver: storeStatus,
		},
	})
}
