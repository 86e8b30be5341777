package operator

import (
	"context"
	"log/slog"
	"time"

	"selegra/internal/federation"
	"selegra/internal/platform/redis"
	pkgerrors "selegra/pkg/errors"
	"selegra/pkg/requestcontext"
)

// membershipTTL bounds how long a positive whitelist lookup may be served
// from cache. Removals take effect within this window.
const membershipTTL = 60 * time.Second

// Service is the whitelist gate. It answers whether a federated identity may
// act as an RA operator and keeps the operator's profile attributes current.
type Service struct {
	store  Store
	cache  *redis.Client
	logger *slog.Logger
}

// NewService constructs the gate. cache may be nil to disable caching.
func NewService(store Store, cache *redis.Client, logger *slog.Logger) *Service {
	return &Service{store: store, cache: cache, logger: logger}
}

// Authorize checks whitelist membership for the federated identity and, on
// success, refreshes the stored profile attributes and returns the operator.
// An absent eppn means the proxy did not authenticate the request at all.
func (s *Service) Authorize(ctx context.Context, id federation.Identity) (Operator, error) {
	requestID := requestcontext.RequestID(ctx)

	if id.EPPN == "" {
		s.logger.WarnContext(ctx, "request without eppn",
			"request_id", requestID,
		)
		return Operator{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "not authenticated")
	}

	whitelisted, err := s.isWhitelisted(ctx, id.EPPN)
	if err != nil {
		return Operator{}, pkgerrors.Wrap(pkgerrors.CodeInternal, "whitelist lookup failed", err)
	}
	if !whitelisted {
		s.logger.WarnContext(ctx, "eppn not in whitelist",
			"request_id", requestID,
			"eppn", id.EPPN,
		)
		return Operator{}, pkgerrors.New(pkgerrors.CodeForbidden, "operator not whitelisted")
	}

	op := Operator{
		EPPN:        id.EPPN,
		GivenName:   id.GivenName,
		Surname:     id.Surname,
		DisplayName: id.DisplayName,
	}
	if err := s.store.UpdateProfile(ctx, op); err != nil {
		// Stale profile attributes must not block a vetted operator.
		s.logger.ErrorContext(ctx, "operator profile refresh failed",
			"request_id", requestID,
			"eppn", id.EPPN,
			"error", err,
		)
	}
	return op, nil
}

// isWhitelisted consults the cache for positive entries first. Cache errors
// degrade to a store lookup rather than failing the request.
func (s *Service) isWhitelisted(ctx context.Context, eppn string) (bool, error) {
	key := "whitelist:" + eppn
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, key).Result(); err == nil && hit == "1" {
			return true, nil
		}
	}

	whitelisted, err := s.store.IsWhitelisted(ctx, eppn)
	if err != nil {
		return false, err
	}
	if whitelisted && s.cache != nil {
		if err := s.cache.Set(ctx, key, "1", membershipTTL).Err(); err != nil {
			s.logger.WarnContext(ctx, "whitelist cache write failed",
				"eppn", eppn,
				"error", err,
			)
		}
	}
	return whitelisted, nil
}
