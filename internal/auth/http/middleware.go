// Package http provides HTTP middleware and handlers for authentication.
package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authUseCase "github.com/suportify/helpdesk/internal/auth/usecase"
	apperrors "github.com/suportify/helpdesk/internal/errors"
	"github.com/suportify/helpdesk/internal/httputil"
	principalDomain "github.com/suportify/helpdesk/internal/principal/domain"
)

// AuthenticationMiddleware authenticates requests via a Bearer token in the
// Authorization header.
//
// The middleware:
// 1. Extracts the Bearer token from the Authorization header (case-insensitive)
// 2. Resolves the token to a principal using IdentityResolver.Resolve()
// 3. Stores the principal in the request context
// 4. Allows downstream handlers to access it via GetPrincipal()
//
// Error handling:
//   - Missing Authorization header → 401 Unauthorized
//   - Malformed Authorization header → 401 Unauthorized
//   - Invalid/expired token or unknown subject → 401 Unauthorized
func AuthenticationMiddleware(
	resolver authUseCase.IdentityResolver,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		bearerToken := authHeader[len(bearerPrefix):]
		if bearerToken == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		principal, err := resolver.Resolve(c.Request.Context(), bearerToken)
		if err != nil {
			logger.Debug("authentication failed",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithPrincipal(c.Request.Context(), principal)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("principal_id", principal.ID().String()),
			slog.String("realm", string(principal.Realm)))

		c.Next()
	}
}

// RequireStaff rejects requests whose principal is not an active staff
// member. It MUST run after AuthenticationMiddleware.
func RequireStaff(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			logger.Debug("staff check failed: no principal in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if principal.Realm != principalDomain.RealmStaff || principal.Staff == nil {
			logger.Debug("staff check failed: principal is not staff",
				slog.String("principal_id", principal.ID().String()),
				slog.String("realm", string(principal.Realm)))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		if !principal.Staff.Active {
			logger.Debug("staff check failed: staff is deactivated",
				slog.String("principal_id", principal.ID().String()))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
