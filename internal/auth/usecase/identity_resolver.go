// Package usecase implements token resolution and login flows.
package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	authDomain "github.com/suportify/helpdesk/internal/auth/domain"
	authService "github.com/suportify/helpdesk/internal/auth/service"
	apperrors "github.com/suportify/helpdesk/internal/errors"
	principalDomain "github.com/suportify/helpdesk/internal/principal/domain"
	principalUseCase "github.com/suportify/helpdesk/internal/principal/usecase"
)

// IdentityResolver verifies a bearer token and resolves its subject to a
// concrete principal.
//
// Resolution per request: verify signature and expiry, look the subject up
// in the realm the token was issued for, and if absent there fall back to
// the other realm. The fallback tolerates tokens that predate a realm
// reassignment; it is logged whenever it fires. Only a principal found in
// neither realm is rejected.
type IdentityResolver interface {
	Resolve(ctx context.Context, bearerToken string) (principalDomain.Principal, error)
}

// identityResolver implements IdentityResolver over the principal Store.
type identityResolver struct {
	tokenService authService.TokenService
	store        principalUseCase.Store
	logger       *slog.Logger
}

// NewIdentityResolver creates an IdentityResolver.
func NewIdentityResolver(
	tokenService authService.TokenService,
	store principalUseCase.Store,
	logger *slog.Logger,
) IdentityResolver {
	return &identityResolver{
		tokenService: tokenService,
		store:        store,
		logger:       logger,
	}
}

// Resolve verifies the token and resolves its subject to a principal.
func (r *identityResolver) Resolve(
	ctx context.Context,
	bearerToken string,
) (principalDomain.Principal, error) {
	claims, err := r.tokenService.Verify(bearerToken)
	if err != nil {
		return principalDomain.Principal{}, err
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return principalDomain.Principal{}, authDomain.ErrInvalidToken
	}

	primary := claims.Realm()

	principal, err := r.store.FindByID(ctx, primary, subject)
	if err == nil {
		return principal, nil
	}
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		return principalDomain.Principal{}, err
	}

	// Cross-realm fallback for tokens whose subject moved realms or was
	// issued against legacy data.
	principal, fallbackErr := r.store.FindByID(ctx, primary.Other(), subject)
	if fallbackErr == nil {
		r.logger.Warn("token resolved through cross-realm fallback",
			slog.String("subject", subject.String()),
			slog.String("token_realm", string(primary)),
			slog.String("resolved_realm", string(principal.Realm)),
		)
		return principal, nil
	}
	if !apperrors.Is(fallbackErr, apperrors.ErrNotFound) {
		return principalDomain.Principal{}, fallbackErr
	}

	return principalDomain.Principal{}, authDomain.ErrPrincipalNotFound
}
