// Package http provides the API HTTP server, route registration and the
// shared request middlewares.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	authHTTP "github.com/suportify/helpdesk/internal/auth/http"
	authUseCase "github.com/suportify/helpdesk/internal/auth/usecase"
	"github.com/suportify/helpdesk/internal/metrics"
	"github.com/suportify/helpdesk/internal/netgate"
	principalHTTP "github.com/suportify/helpdesk/internal/principal/http"
	vaultHTTP "github.com/suportify/helpdesk/internal/vault/http"
)

// RouterConfig holds the handlers and policies wired into the API router.
type RouterConfig struct {
	LoginHandler     *authHTTP.LoginHandler
	PrincipalHandler *principalHTTP.PrincipalHandler
	VaultHandler     *vaultHTTP.VaultHandler

	IdentityResolver authUseCase.IdentityResolver

	// StaffNetworkRanges guards every staff-authenticated route.
	// StaffLoginNetworkRanges guards only the staff login endpoint and is
	// configured independently.
	StaffNetworkRanges      *netgate.RangeSet
	StaffLoginNetworkRanges *netgate.RangeSet

	RateLimitLoginEnabled        bool
	RateLimitLoginRequestsPerSec float64
	RateLimitLoginBurst          int

	CORSEnabled      bool
	CORSAllowOrigins string

	MetricsEnabled   bool
	MetricsNamespace string
	MeterProvider    metric.MeterProvider
}

// Server represents the API HTTP server.
type Server struct {
	db     *sql.DB
	logger *slog.Logger
	router *gin.Engine
	server *http.Server
}

// NewServer creates a new HTTP server. SetupRouter must be called before
// Start to register the API routes.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin engine and registers all API routes.
func (s *Server) SetupRouter(cfg RouterConfig) error {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsEnabled && cfg.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MeterProvider, cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	var loginRateLimit gin.HandlerFunc
	if cfg.RateLimitLoginEnabled {
		loginRateLimit = authHTTP.LoginRateLimitMiddleware(
			cfg.RateLimitLoginRequestsPerSec,
			cfg.RateLimitLoginBurst,
			s.logger,
		)
	}

	v1 := router.Group("/v1")

	// Unauthenticated surface: registration and the two login endpoints.
	// The staff login endpoint additionally sits behind its own network
	// allow-list.
	v1.POST("/clients", cfg.PrincipalHandler.RegisterClientHandler)

	clientLogin := v1.Group("")
	if loginRateLimit != nil {
		clientLogin.Use(loginRateLimit)
	}
	clientLogin.POST("/login", cfg.LoginHandler.ClientLoginHandler)

	staffLogin := v1.Group("/staff")
	staffLogin.Use(authHTTP.NetworkGateMiddleware(cfg.StaffLoginNetworkRanges, s.logger))
	if loginRateLimit != nil {
		staffLogin.Use(loginRateLimit)
	}
	staffLogin.POST("/login", cfg.LoginHandler.StaffLoginHandler)

	// Authenticated surface.
	authenticated := v1.Group("")
	authenticated.Use(authHTTP.AuthenticationMiddleware(cfg.IdentityResolver, s.logger))
	authenticated.GET("/profile", cfg.PrincipalHandler.ProfileHandler)
	authenticated.GET("/clients/:id", cfg.PrincipalHandler.GetClientHandler)

	// Staff-only surface: the vault. Staff calls must also originate from
	// an admitted network.
	staffOnly := authenticated.Group("/vault")
	staffOnly.Use(authHTTP.NetworkGateMiddleware(cfg.StaffNetworkRanges, s.logger))
	staffOnly.Use(authHTTP.RequireStaff(s.logger))

	staffOnly.POST("/organizations", cfg.VaultHandler.CreateOrganizationHandler)
	staffOnly.GET("/organizations", cfg.VaultHandler.ListHandler)
	staffOnly.GET("/organizations/:name", cfg.VaultHandler.GetHandler)
	staffOnly.PUT("/organizations/:name", cfg.VaultHandler.UpsertHandler)
	staffOnly.POST("/organizations/:name/credentials", cfg.VaultHandler.AddCredentialHandler)
	staffOnly.DELETE("/organizations/:name/credentials/:id", cfg.VaultHandler.RemoveCredentialHandler)
	staffOnly.POST("/organizations/:name/remote-access", cfg.VaultHandler.AddRemoteAccessHandler)
	staffOnly.DELETE("/organizations/:name/remote-access/:id", cfg.VaultHandler.RemoveRemoteAccessHandler)
	staffOnly.GET("/organizations/:name/diagram", cfg.VaultHandler.GetDiagramHandler)
	staffOnly.PUT("/organizations/:name/diagram", cfg.VaultHandler.SetDiagramHandler)
	staffOnly.GET("/organizations/:name/layout", cfg.VaultHandler.GetLayoutHandler)
	staffOnly.PUT("/organizations/:name/layout", cfg.VaultHandler.SetLayoutHandler)

	s.router = router
	return nil
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router is not configured, call SetupRouter first")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports readiness, checking the database connection.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}

	if s.db == nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}
