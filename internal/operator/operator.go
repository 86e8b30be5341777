// Package operator implements the whitelist gate: only vetted RA staff may
// submit proofing decisions. Membership is managed out of band; this package
// only checks it and keeps operator profile attributes fresh.
package operator

import "context"

// Operator is the authenticated RA staff member performing the in-person
// verification. EPPN is the stable external identifier and unique key.
type Operator struct {
	EPPN        string `bson:"eppn" json:"eppn"`
	GivenName   string `bson:"given_name" json:"given_name"`
	Surname     string `bson:"surname" json:"surname"`
	DisplayName string `bson:"display_name" json:"display_name"`
}

// Store persists whitelist membership and operator profiles.
//
// UpdateProfile refreshes profile attributes for an existing member only;
// membership itself is never created through the authorize path.
type Store interface {
	IsWhitelisted(ctx context.Context, eppn string) (bool, error)
	UpdateProfile(ctx context.Context, op Operator) error
	Add(ctx context.Context, eppn string) error
}

type operatorKey struct{}

// ContextKeyOperator is exported for tests that build contexts directly.
var ContextKeyOperator = operatorKey{}

// WithOperator injects the authorized operator into the context.
func WithOperator(ctx context.Context, op Operator) context.Context {
	return context.WithValue(ctx, ContextKeyOperator, op)
}

// FromContext retrieves the authorized operator, zero value if unset.
func FromContext(ctx context.Context) Operator {
	if op, ok := ctx.Value(ContextKeyOperator).(Operator); ok {
		return op
	}
	return Operator{}
}
