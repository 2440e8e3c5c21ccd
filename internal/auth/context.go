package auth

import (
	"context"

	"github.com/hongminglow/taskboard/internal/models"
)

type principalKey struct{}

// WithPrincipal stores the authenticated principal on ctx.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal set by the authentication middleware.
func PrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(models.Principal)
	return p, ok && p.ID != ""
}
