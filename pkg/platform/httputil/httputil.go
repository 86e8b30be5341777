// Package httputil centralizes JSON response writing and request decoding so
// handlers stay small and error envelopes remain consistent.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	pkgerrors "selegra/pkg/errors"
)

// WriteJSON serializes v with the given status. Encoding failures are
// swallowed; by then the status line is already on the wire.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a taxonomy error into the standard error envelope.
// Internal errors omit the description so internals never leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := pkgerrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	if code != pkgerrors.CodeInternal {
		if msg := pkgerrors.MessageOf(err); msg != "" {
			body["error_description"] = msg
		}
	}
	WriteJSON(w, pkgerrors.ToHTTPStatus(code), body)
}

// Decode parses a JSON request body into T. On failure it writes a
// validation_failed envelope and reports false so callers can return early.
func Decode[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, requestID string) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(r.Context(), "malformed request body",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, pkgerrors.New(pkgerrors.CodeValidation, "malformed JSON body"))
		return req, false
	}
	return req, true
}
