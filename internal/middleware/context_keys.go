package middleware

import (
	"context"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
)

// ContextKey is the type of the request context keys set by this package.
type ContextKey string

const (
	// ActorCtxKey holds the *domain.Actor resolved by JWTAuth.
	ActorCtxKey = ContextKey("actor")

	auditStateCtxKey = ContextKey("audit_state")
)

// WithActor stores actor in ctx.
func WithActor(ctx context.Context, actor *domain.Actor) context.Context {
	return context.WithValue(ctx, ActorCtxKey, actor)
}

// ActorFromContext returns the authenticated actor, if any.
func ActorFromContext(ctx context.Context) (*domain.Actor, bool) {
	actor, ok := ctx.Value(ActorCtxKey).(*domain.Actor)
	return actor, ok && actor != nil
}

type auditState struct {
	recorded bool
}

// MarkAudited tells the audit middleware that the handler wrote its own entry.
func MarkAudited(ctx context.Context) {
	if st, ok := ctx.Value(auditStateCtxKey).(*auditState); ok {
		st.recorded = true
	}
}
