// Package http provides HTTP middleware and handlers for authentication.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/suportify/helpdesk/internal/auth/http/dto"
	authUseCase "github.com/suportify/helpdesk/internal/auth/usecase"
	"github.com/suportify/helpdesk/internal/httputil"
	customValidation "github.com/suportify/helpdesk/internal/validation"
)

// loginFunc authenticates credentials against a single realm.
type loginFunc func(ctx context.Context, email, password string) (*authUseCase.LoginResult, error)

// LoginHandler handles HTTP requests for login operations.
// It coordinates credential verification and token issuance with the
// LoginUseCase.
type LoginHandler struct {
	loginUseCase authUseCase.LoginUseCase
	logger       *slog.Logger
}

// NewLoginHandler creates a new login handler with required dependencies.
func NewLoginHandler(
	loginUseCase authUseCase.LoginUseCase,
	logger *slog.Logger,
) *LoginHandler {
	return &LoginHandler{
		loginUseCase: loginUseCase,
		logger:       logger,
	}
}

// ClientLoginHandler authenticates a client and issues a bearer token.
// POST /v1/login - No authentication required.
// Returns 201 Created with token and expiration time.
func (h *LoginHandler) ClientLoginHandler(c *gin.Context) {
	h.login(c, h.loginUseCase.ClientLogin)
}

// StaffLoginHandler authenticates a staff member and issues a bearer token.
// POST /v1/staff/login - No authentication required, but the route sits
// behind the staff login network gate.
// Returns 201 Created with token and expiration time.
func (h *LoginHandler) StaffLoginHandler(c *gin.Context) {
	h.login(c, h.loginUseCase.StaffLogin)
}

func (h *LoginHandler) login(c *gin.Context, authenticate loginFunc) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapLoginResultToResponse(result))
}
