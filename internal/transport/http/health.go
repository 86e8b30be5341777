package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"selegra/pkg/platform/httputil"
)

// Pinger is the liveness probe the health endpoint runs against the document
// store.
type Pinger interface {
	Health(ctx context.Context) error
}

// HealthHandler reports whether the document store answers a liveness probe.
// The body mirrors the status contract the monitoring side scrapes.
type HealthHandler struct {
	store  Pinger
	logger *slog.Logger
}

// NewHealthHandler constructs the health endpoint.
func NewHealthHandler(store Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, logger: logger}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Health(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "mongodb health check failed", "error", err)
		httputil.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "STATUS_FAIL",
			"reason": "mongodb check failed",
		})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "STATUS_OK",
		"reason": "Databases tested OK",
	})
}
