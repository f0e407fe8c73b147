// Package http provides HTTP middleware and handlers for authentication.
package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	authDomain "github.com/suportify/helpdesk/internal/auth/domain"
	"github.com/suportify/helpdesk/internal/httputil"
	"github.com/suportify/helpdesk/internal/netgate"
)

// NetworkGateMiddleware rejects requests whose source address is outside the
// given range set. Staff endpoints sit behind a gate spanning internal
// networks; the staff login endpoint uses a second, narrower gate.
//
// Uses c.ClientIP() which resolves the effective source address from
// X-Forwarded-For, X-Real-IP, or the connection remote address depending on
// gin's trusted proxy settings.
//
// Returns 403 Forbidden when the address is not in any configured range or
// cannot be parsed.
func NetworkGateMiddleware(ranges *netgate.RangeSet, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sourceAddress := c.ClientIP()

		if !ranges.IsAdmitted(sourceAddress) {
			logger.Warn("network gate rejected request",
				slog.String("source_address", sourceAddress),
				slog.String("path", c.Request.URL.Path))
			httputil.HandleErrorGin(c, authDomain.ErrNetworkNotAdmitted, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
