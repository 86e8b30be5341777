// Package httptransport is the thin HTTP layer over the proofing pipeline.
// Handlers decode, delegate, and translate outcomes; business logic stays in
// the domain packages.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"selegra/internal/operator"
	"selegra/internal/proofing"
	"selegra/pkg/platform/httputil"
	"selegra/pkg/requestcontext"
)

// Submitter is the slice of the proofing service the handlers need.
type Submitter interface {
	Submit(ctx context.Context, op operator.Operator, sub proofing.Submission) (proofing.Result, error)
}

// Handler wires the form submission endpoints to the proofing pipeline.
type Handler struct {
	service Submitter
	logger  *slog.Logger
}

// NewHandler constructs the HTTP handler set.
func NewHandler(service Submitter, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// submissionRequest is the shared JSON body for all four form variants; the
// variant-specific field is picked per route.
type submissionRequest struct {
	QRCode             string `json:"qr_code"`
	Nin                string `json:"nin"`
	ExpiryDate         string `json:"expiry_date"`
	OcularConfirmation bool   `json:"ocular_confirmation"`
	CardNumber         string `json:"card_number"`
	ReferenceNumber    string `json:"reference_number"`
	PassportNumber     string `json:"passport_number"`
}

func (r submissionRequest) toSubmission(method proofing.Method) proofing.Submission {
	sub := proofing.Submission{
		Method:             method,
		QRCode:             r.QRCode,
		Nin:                r.Nin,
		ExpiryDate:         r.ExpiryDate,
		OcularConfirmation: r.OcularConfirmation,
	}
	switch method {
	case proofing.MethodIDCard, proofing.MethodNationalIDCard:
		sub.CardNumber = r.CardNumber
	case proofing.MethodDriversLicense:
		sub.ReferenceNumber = r.ReferenceNumber
	case proofing.MethodPassport:
		sub.PassportNumber = r.PassportNumber
	}
	return sub
}

// handleSubmission returns the POST handler for one document variant.
func (h *Handler) handleSubmission(method proofing.Method) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := requestcontext.RequestID(ctx)
		op := operator.FromContext(ctx)

		req, ok := httputil.Decode[submissionRequest](w, r, h.logger, requestID)
		if !ok {
			return
		}

		result, err := h.service.Submit(ctx, op, req.toSubmission(method))
		if err != nil {
			httputil.WriteError(w, err)
			return
		}

		if result.Outcome == proofing.OutcomeValidationFailed {
			httputil.WriteJSON(w, http.StatusBadRequest, map[string]any{
				"error":  "validation_failed",
				"fields": result.ValidationErrors,
			})
			return
		}

		httputil.WriteJSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"message":   "Verifiering mottagen",
			"record_id": result.RecordID,
		})
	}
}
