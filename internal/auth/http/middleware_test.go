package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	authDomain "github.com/suportify/helpdesk/internal/auth/domain"
	principalDomain "github.com/suportify/helpdesk/internal/principal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// stubResolver resolves a fixed token to a fixed principal.
type stubResolver struct {
	token     string
	principal principalDomain.Principal
}

func (s *stubResolver) Resolve(_ context.Context, bearerToken string) (principalDomain.Principal, error) {
	if bearerToken == s.token {
		return s.principal, nil
	}
	return principalDomain.Principal{}, authDomain.ErrInvalidToken
}

func staffPrincipal(active bool) principalDomain.Principal {
	return principalDomain.Principal{
		Realm: principalDomain.RealmStaff,
		Staff: &principalDomain.Staff{
			ID:     uuid.Must(uuid.NewV7()),
			Email:  "tech@support.example",
			Role:   principalDomain.RoleTechnician,
			Active: active,
		},
	}
}

func clientPrincipal() principalDomain.Principal {
	return principalDomain.Principal{
		Realm: principalDomain.RealmClient,
		Client: &principalDomain.Client{
			ID:    uuid.Must(uuid.NewV7()),
			Email: "owner@acme.example",
		},
	}
}

func newAuthRouter(resolver *stubResolver, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	handlers := []gin.HandlerFunc{AuthenticationMiddleware(resolver, testLogger)}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no principal"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": principal.ID().String()})
	})
	router.GET("/protected", handlers...)
	return router
}

func TestAuthenticationMiddleware(t *testing.T) {
	resolver := &stubResolver{token: "valid-token", principal: clientPrincipal()}
	router := newAuthRouter(resolver)

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("empty bearer token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer ")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer wrong-token")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), resolver.principal.ID().String())
	})

	t.Run("case-insensitive scheme", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "bearer valid-token")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireStaff(t *testing.T) {
	t.Run("active staff passes", func(t *testing.T) {
		resolver := &stubResolver{token: "staff-token", principal: staffPrincipal(true)}
		router := newAuthRouter(resolver, RequireStaff(testLogger))

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer staff-token")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("client is forbidden", func(t *testing.T) {
		resolver := &stubResolver{token: "client-token", principal: clientPrincipal()}
		router := newAuthRouter(resolver, RequireStaff(testLogger))

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer client-token")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("deactivated staff is forbidden", func(t *testing.T) {
		resolver := &stubResolver{token: "staff-token", principal: staffPrincipal(false)}
		router := newAuthRouter(resolver, RequireStaff(testLogger))

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer staff-token")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("no principal in context", func(t *testing.T) {
		router := gin.New()
		router.GET("/bare", RequireStaff(testLogger), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/bare", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
