package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"selegra/internal/federation"
	"selegra/internal/operator"
	"selegra/internal/platform/metrics"
	"selegra/internal/proofing"
)

// NewRouter wires all endpoints. The four submission routes sit behind the
// full authorization chain; health and metrics are reachable by the
// monitoring side without federation headers.
func NewRouter(
	h *Handler,
	health *HealthHandler,
	gate *federation.AssuranceGate,
	whitelist *operator.Service,
	logger *slog.Logger,
	m *metrics.Metrics,
) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(logger, m))

	r.Group(func(r chi.Router) {
		r.Use(Federation)
		r.Use(RequireOperator(gate, whitelist))

		r.Post("/id-card", h.handleSubmission(proofing.MethodIDCard))
		r.Post("/drivers-license", h.handleSubmission(proofing.MethodDriversLicense))
		r.Post("/passport", h.handleSubmission(proofing.MethodPassport))
		r.Post("/national-id-card", h.handleSubmission(proofing.MethodNationalIDCard))
	})

	r.Get("/status/healthy", health.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
