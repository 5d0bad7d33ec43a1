package middleware

import (
	"context"

	"github.com/staffhub/staffhub/internal/domain"
)

type contextKey string

// ContextKeyPrincipal stores the authenticated *domain.Principal.
const ContextKeyPrincipal contextKey = "principal"

func PrincipalFromContext(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(ContextKeyPrincipal).(*domain.Principal)
	return p, ok
}

// WithPrincipal returns a context carrying the principal. Exposed for tests
// that drive handlers directly without the HTTP middleware stack.
func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, ContextKeyPrincipal, p)
}
