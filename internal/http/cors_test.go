package http

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCreateCORSMiddleware(t *testing.T) {
	logger := slog.Default()

	t.Run("disabled returns nil", func(t *testing.T) {
		assert.Nil(t, createCORSMiddleware(false, "https://helpdesk.example.com", logger))
	})

	t.Run("enabled without origins returns nil", func(t *testing.T) {
		assert.Nil(t, createCORSMiddleware(true, "", logger))
	})

	t.Run("parses comma separated origins", func(t *testing.T) {
		middleware := createCORSMiddleware(
			true,
			"https://helpdesk.example.com,https://admin.example.com",
			logger,
		)
		assert.NotNil(t, middleware)
	})
}

func TestParseOrigins(t *testing.T) {
	t.Run("trims whitespace", func(t *testing.T) {
		origins := parseOrigins(" https://helpdesk.example.com , https://admin.example.com ")
		assert.Equal(t, []string{
			"https://helpdesk.example.com",
			"https://admin.example.com",
		}, origins)
	})

	t.Run("empty string", func(t *testing.T) {
		assert.Nil(t, parseOrigins(""))
	})
}

func TestCORSIntegration(t *testing.T) {
	logger := slog.Default()

	newRouter := func(middleware gin.HandlerFunc) *gin.Engine {
		router := gin.New()
		if middleware != nil {
			router.Use(middleware)
		}
		router.POST("/test", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		return router
	}

	t.Run("headers added when enabled", func(t *testing.T) {
		router := newRouter(createCORSMiddleware(true, "https://helpdesk.example.com", logger))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/test", nil)
		req.Header.Set("Origin", "https://helpdesk.example.com")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(
			t,
			"https://helpdesk.example.com",
			w.Header().Get("Access-Control-Allow-Origin"),
		)
	})

	t.Run("no headers when disabled", func(t *testing.T) {
		router := newRouter(createCORSMiddleware(false, "https://helpdesk.example.com", logger))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/test", nil)
		req.Header.Set("Origin", "https://helpdesk.example.com")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight request handled", func(t *testing.T) {
		router := newRouter(createCORSMiddleware(true, "https://helpdesk.example.com", logger))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/test", nil)
		req.Header.Set("Origin", "https://helpdesk.example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	})
}
