package httptransport

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"selegra/internal/federation"
	"selegra/internal/operator"
	"selegra/internal/platform/metrics"
	pkgerrors "selegra/pkg/errors"
	"selegra/pkg/platform/httputil"
	"selegra/pkg/requestcontext"
)

// RequestID assigns a correlation id to every request and echoes it in the
// response for support cases.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		ctx := requestcontext.WithRequestID(r.Context(), id)
		ctx = requestcontext.WithTime(ctx, time.Now())
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestLogger emits one structured log line and one metrics observation per
// served request.
func RequestLogger(logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			m.ObserveRequest(r.URL.Path, strconv.Itoa(ww.Status()), duration)
			logger.InfoContext(r.Context(), "request served",
				"request_id", requestcontext.RequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", duration.Milliseconds(),
			)
		})
	}
}

// Federation extracts the proxy-injected trust attributes into an immutable
// identity value on the context. Extraction is separate from enforcement so
// unauthenticated endpoints share the same chain.
func Federation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := federation.WithIdentity(r.Context(), federation.IdentityFromHeaders(r.Header))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireOperator enforces the full authorization gate: an authenticated
// eppn, the assurance policy, and whitelist membership. Denied requests never
// reach the proofing pipeline.
func RequireOperator(gate *federation.AssuranceGate, whitelist *operator.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			identity := federation.IdentityFrom(ctx)

			if identity.EPPN == "" {
				// The fronting proxy redirects to login; API clients
				// get the bare 401.
				httputil.WriteError(w, pkgerrors.New(pkgerrors.CodeUnauthorized, "not authenticated"))
				return
			}
			if err := gate.Evaluate(ctx, identity); err != nil {
				httputil.WriteError(w, err)
				return
			}
			op, err := whitelist.Authorize(ctx, identity)
			if err != nil {
				httputil.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(operator.WithOperator(ctx, op)))
		})
	}
}
