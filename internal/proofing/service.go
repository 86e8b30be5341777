package proofing

import (
	"context"
	"log/slog"
	"time"

	"selegra/internal/operator"
	"selegra/internal/proofing/metrics"
	pkgerrors "selegra/pkg/errors"
	"selegra/pkg/requestcontext"
)

// Submission carries one submitted verification form. Method selects the
// variant; exactly the variant's extra field is expected to be set.
type Submission struct {
	Method             Method
	QRCode             string
	Nin                string
	ExpiryDate         string
	OcularConfirmation bool

	CardNumber      string
	ReferenceNumber string
	PassportNumber  string
}

// Outcome is the terminal state of a successfully processed submission.
type Outcome string

const (
	OutcomeAccepted         Outcome = "accepted"
	OutcomeValidationFailed Outcome = "validation_failed"
)

// Result reports what the pipeline did with a submission. ValidationErrors is
// populated only for OutcomeValidationFailed; RecordID only for
// OutcomeAccepted.
type Result struct {
	Outcome          Outcome
	RecordID         string
	ValidationErrors []FieldError
}

// AuditLog persists proofing records durably. Append-only by contract.
type AuditLog interface {
	Append(ctx context.Context, rec Record) error
}

// Relayer posts a proofing decision to the external vetting service.
type Relayer interface {
	Relay(ctx context.Context, rec Record) error
}

// Service orchestrates the submission pipeline: validate, score, construct
// the audit record, persist it, then relay the decision. Each stage is
// fail-fast; the audit write always precedes the relay attempt so a relay
// failure never loses the audit trail.
type Service struct {
	audit   AuditLog
	relay   Relayer
	appID   string
	version string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewService constructs the pipeline with its dependencies. appID identifies
// this RA instance as the issuing application on every record.
func NewService(audit AuditLog, relay Relayer, appID, version string, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		audit:   audit,
		relay:   relay,
		appID:   appID,
		version: version,
		logger:  logger,
		metrics: m,
	}
}

// Submit runs the pipeline for an already-authorized operator. Validation
// failures are reported in the Result with every failing field; persistence
// and relay failures are returned as taxonomy errors for transport to map.
func (s *Service) Submit(ctx context.Context, op operator.Operator, sub Submission) (Result, error) {
	requestID := requestcontext.RequestID(ctx)
	now := requestcontext.Now(ctx)

	expiry, fieldErrs := validate(sub)
	if len(fieldErrs) > 0 {
		for _, fe := range fieldErrs {
			s.metrics.IncrementValidationFailure(fe.Field)
		}
		s.metrics.IncrementSubmission(string(sub.Method), string(OutcomeValidationFailed))
		s.logger.InfoContext(ctx, "submission failed validation",
			"request_id", requestID,
			"method", sub.Method,
			"verified_by", op.EPPN,
			"failing_fields", len(fieldErrs),
		)
		return Result{Outcome: OutcomeValidationFailed, ValidationErrors: fieldErrs}, nil
	}

	score := Score(sub.OcularConfirmation, expiry, now)

	rec, err := NewRecord(s.appID, op.EPPN, sub, expiry, score, s.version, now)
	if err != nil {
		s.metrics.IncrementSubmission(string(sub.Method), "internal_error")
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeInternal, "construct proofing record", err)
	}

	if err := s.audit.Append(ctx, rec); err != nil {
		s.metrics.IncrementSubmission(string(sub.Method), "persist_failed")
		s.logger.ErrorContext(ctx, "proofing record not persisted",
			"request_id", requestID,
			"method", sub.Method,
			"verified_by", op.EPPN,
			"error", err,
		)
		return Result{}, pkgerrors.Wrap(pkgerrors.CodePersistFailed,
			"verifieringen kunde inte sparas, försök igen senare", err)
	}
	s.logger.InfoContext(ctx, "proofing record persisted",
		"request_id", requestID,
		"record_id", rec.ID,
		"method", rec.Method,
		"verified_by", rec.VerifiedBy,
		"credibility_score", rec.CredibilityScore,
	)

	// The record is durable from here on. A failed relay is reported but
	// never retried by the service; resubmission re-runs the whole
	// pipeline, which appends again by design.
	relayStart := time.Now()
	err = s.relay.Relay(ctx, rec)
	s.metrics.ObserveRelayLatency(time.Since(relayStart))
	if err != nil {
		code := pkgerrors.CodeOf(err)
		s.metrics.IncrementSubmission(string(sub.Method), string(code))
		s.logger.WarnContext(ctx, "vetting relay failed",
			"request_id", requestID,
			"record_id", rec.ID,
			"code", code,
			"error", err,
		)
		return Result{}, err
	}

	s.metrics.IncrementSubmission(string(sub.Method), string(OutcomeAccepted))
	s.logger.InfoContext(ctx, "vetting relay accepted",
		"request_id", requestID,
		"record_id", rec.ID,
	)
	return Result{Outcome: OutcomeAccepted, RecordID: rec.ID}, nil
}
