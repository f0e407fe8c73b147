package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider("helpdesk_test")
	require.NoError(t, err)
	assert.NotNil(t, provider.MeterProvider())

	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})
}

func TestProvider_Handler(t *testing.T) {
	provider, err := NewProvider("helpdesk_test")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "helpdesk_test")
	require.NoError(t, err)
	bm.RecordOperation(context.Background(), "vault", "vault_create", "success")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body, _ := io.ReadAll(w.Body)
	assert.Contains(t, string(body), "helpdesk_test_operations_total")
}

func TestBusinessMetrics_Record(t *testing.T) {
	provider, err := NewProvider("helpdesk_test")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "helpdesk_test")
	require.NoError(t, err)

	ctx := context.Background()

	assert.NotPanics(t, func() {
		bm.RecordOperation(ctx, "auth", "client_login", "success")
		bm.RecordOperation(ctx, "auth", "client_login", "error")
		bm.RecordOperation(ctx, "vault", "credential_add", "success")
		bm.RecordDuration(ctx, "vault", "credential_add", 150*time.Millisecond, "success")
	})
}

func TestNoOpBusinessMetrics(t *testing.T) {
	bm := NewNoOpBusinessMetrics()
	assert.NotPanics(t, func() {
		bm.RecordOperation(context.Background(), "vault", "vault_create", "success")
		bm.RecordDuration(context.Background(), "vault", "vault_create", time.Second, "success")
	})
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	provider, err := NewProvider("helpdesk_test")
	require.NoError(t, err)

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "helpdesk_test"))
	router.GET("/v1/clients/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/clients/abc", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	mw := httptest.NewRecorder()
	mreq := httptest.NewRequest("GET", "/metrics", nil)
	provider.Handler().ServeHTTP(mw, mreq)

	body := mw.Body.String()
	assert.Contains(t, body, "helpdesk_test_http_requests_total")
	// Route pattern, not the raw path, keeps label cardinality bounded.
	assert.Contains(t, body, "/v1/clients/:id")
	assert.NotContains(t, body, "/v1/clients/abc")
}
