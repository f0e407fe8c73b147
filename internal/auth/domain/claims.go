// Package domain defines bearer-token claims and authentication errors.
package domain

import (
	"github.com/golang-jwt/jwt/v5"

	principalDomain "github.com/suportify/helpdesk/internal/principal/domain"
)

// TokenClaims is the bearer token payload. Beyond identity (subject) and
// the realm flag, the token carries no authorization state: permissions and
// relationships are re-derived from the resolved principal on every request.
type TokenClaims struct {
	// Staff is the realm flag: true for staff-realm tokens, false for
	// client-realm tokens.
	Staff bool `json:"staff"`

	jwt.RegisteredClaims
}

// Realm returns the realm the token was issued for.
func (c *TokenClaims) Realm() principalDomain.Realm {
	if c.Staff {
		return principalDomain.RealmStaff
	}
	return principalDomain.RealmClient
}
