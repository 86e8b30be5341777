package federation

import (
	"context"
	"log/slog"

	pkgerrors "selegra/pkg/errors"
	"selegra/pkg/requestcontext"
)

// Policy holds the accepted values and per-provider exceptions for the
// assurance gate. The MFA and assurance checks carry independent exception
// sets; being excepted from one never excepts a provider from the other.
type Policy struct {
	AL2Assurances     []string
	AL2IDPExceptions  []string
	MFAContextClasses []string
	MFAIDPExceptions  []string
}

// AssuranceGate evaluates federated trust attributes against policy before a
// request may reach the proofing pipeline.
type AssuranceGate struct {
	logger *slog.Logger

	al2Assurances map[string]struct{}
	al2Exceptions map[string]struct{}
	mfaClasses    map[string]struct{}
	mfaExceptions map[string]struct{}
}

// NewAssuranceGate constructs a gate from the configured policy.
func NewAssuranceGate(policy Policy, logger *slog.Logger) *AssuranceGate {
	return &AssuranceGate{
		logger:        logger,
		al2Assurances: toSet(policy.AL2Assurances),
		al2Exceptions: toSet(policy.AL2IDPExceptions),
		mfaClasses:    toSet(policy.MFAContextClasses),
		mfaExceptions: toSet(policy.MFAIDPExceptions),
	}
}

// Evaluate runs the MFA and assurance-level checks. A missing claim is a
// non-match, not an error. Every decision path logs; a policy bypass logs at
// WARN because it is a deliberate operational override that must be auditable.
func (g *AssuranceGate) Evaluate(ctx context.Context, id Identity) error {
	requestID := requestcontext.RequestID(ctx)

	if _, ok := g.mfaExceptions[id.IdentityProvider]; ok {
		g.logger.WarnContext(ctx, "mfa check bypassed for identity provider",
			"request_id", requestID,
			"eppn", id.EPPN,
			"identity_provider", id.IdentityProvider,
		)
	} else if _, ok := g.mfaClasses[id.AuthnContextClass]; !ok {
		g.logger.WarnContext(ctx, "authn context class not accepted",
			"request_id", requestID,
			"eppn", id.EPPN,
			"identity_provider", id.IdentityProvider,
			"authn_context_class", id.AuthnContextClass,
		)
		return pkgerrors.New(pkgerrors.CodeForbidden, "multi-factor authentication required")
	}

	if _, ok := g.al2Exceptions[id.IdentityProvider]; ok {
		g.logger.WarnContext(ctx, "assurance check bypassed for identity provider",
			"request_id", requestID,
			"eppn", id.EPPN,
			"identity_provider", id.IdentityProvider,
		)
	} else if !g.hasAcceptedAssurance(id.AssuranceClaims) {
		g.logger.WarnContext(ctx, "no accepted assurance claim",
			"request_id", requestID,
			"eppn", id.EPPN,
			"identity_provider", id.IdentityProvider,
			"assurance_claims", id.AssuranceClaims,
		)
		return pkgerrors.New(pkgerrors.CodeForbidden, "assurance level not accepted")
	}

	g.logger.InfoContext(ctx, "assurance gate passed",
		"request_id", requestID,
		"eppn", id.EPPN,
		"identity_provider", id.IdentityProvider,
	)
	return nil
}

func (g *AssuranceGate) hasAcceptedAssurance(claims []string) bool {
	for _, claim := range claims {
		if _, ok := g.al2Assurances[claim]; ok {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
