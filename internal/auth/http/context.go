// Package http provides HTTP middleware and handlers for authentication.
package http

import (
	"context"

	principalDomain "github.com/suportify/helpdesk/internal/principal/domain"
)

// principalKey is a context key type for storing authenticated principals.
type principalKey struct{}

// WithPrincipal stores an authenticated principal in the context.
// This is typically called by the authentication middleware after successful
// token resolution.
func WithPrincipal(ctx context.Context, principal principalDomain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipal retrieves the authenticated principal from the context.
// Returns (principal, true) if one is present, or (zero, false) if the
// authentication middleware did not run.
func GetPrincipal(ctx context.Context) (principalDomain.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(principalDomain.Principal)
	return principal, ok
}
