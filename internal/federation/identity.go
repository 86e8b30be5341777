// Package federation models the trust attributes injected by the fronting
// SAML proxy and the policy gate that evaluates them. Attributes are
// extracted once per request into an immutable Identity value; nothing here
// mutates request state.
package federation

import (
	"context"
	"net/http"
	"strings"

	pstrings "selegra/pkg/platform/strings"
)

// Header names set by the fronting Shibboleth proxy.
const (
	HeaderEPPN              = "Eppn"
	HeaderGivenName         = "Givenname"
	HeaderSurname           = "Sn"
	HeaderDisplayName       = "Displayname"
	HeaderIdentityProvider  = "Shib-Identity-Provider"
	HeaderAssurance         = "Assurance"
	HeaderAuthnContextClass = "Authn-Context-Class"
)

// Identity is the per-request federated identity. A missing attribute is the
// zero value; absence is handled by the gates, never treated as an error here.
type Identity struct {
	EPPN              string
	GivenName         string
	Surname           string
	DisplayName       string
	IdentityProvider  string
	AssuranceClaims   []string
	AuthnContextClass string
}

// IdentityFromHeaders extracts the federated identity from proxy headers.
// Assurance claims arrive either as repeated header values or as a single
// value joined by ";" (an upstream proxy quirk); both forms are accepted.
func IdentityFromHeaders(h http.Header) Identity {
	return Identity{
		EPPN:              h.Get(HeaderEPPN),
		GivenName:         h.Get(HeaderGivenName),
		Surname:           h.Get(HeaderSurname),
		DisplayName:       h.Get(HeaderDisplayName),
		IdentityProvider:  h.Get(HeaderIdentityProvider),
		AssuranceClaims:   splitClaims(h.Values(HeaderAssurance)),
		AuthnContextClass: h.Get(HeaderAuthnContextClass),
	}
}

// splitClaims flattens repeated values and ";"-joined values into one
// normalized list. The ";" handling mirrors the upstream proxy behavior and
// is deliberately not generalized to other separators.
func splitClaims(values []string) []string {
	var claims []string
	for _, value := range values {
		claims = append(claims, strings.Split(value, ";")...)
	}
	return pstrings.DedupeAndTrim(claims)
}

type identityKey struct{}

// ContextKeyIdentity is exported for tests that build contexts directly.
var ContextKeyIdentity = identityKey{}

// WithIdentity injects the federated identity into the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, id)
}

// IdentityFrom retrieves the federated identity, zero value if unset.
func IdentityFrom(ctx context.Context) Identity {
	if id, ok := ctx.Value(ContextKeyIdentity).(Identity); ok {
		return id
	}
	return Identity{}
}
