// Package http provides HTTP handlers for principal registration and lookup.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/suportify/helpdesk/internal/auth/http"
	"github.com/suportify/helpdesk/internal/authz"
	apperrors "github.com/suportify/helpdesk/internal/errors"
	"github.com/suportify/helpdesk/internal/httputil"
	principalDomain "github.com/suportify/helpdesk/internal/principal/domain"
	"github.com/suportify/helpdesk/internal/principal/http/dto"
	principalUseCase "github.com/suportify/helpdesk/internal/principal/usecase"
	customValidation "github.com/suportify/helpdesk/internal/validation"
)

// PermissionClientsRead lets a technician look up client principals.
// Admins hold every permission implicitly.
const PermissionClientsRead = "clients:read"

// PrincipalHandler handles HTTP requests for registration, profile and
// client lookup operations.
type PrincipalHandler struct {
	principalUseCase principalUseCase.PrincipalUseCase
	logger           *slog.Logger
}

// NewPrincipalHandler creates a new principal handler with required dependencies.
func NewPrincipalHandler(
	principalUseCase principalUseCase.PrincipalUseCase,
	logger *slog.Logger,
) *PrincipalHandler {
	return &PrincipalHandler{
		principalUseCase: principalUseCase,
		logger:           logger,
	}
}

// RegisterClientHandler registers a new client principal.
// POST /v1/clients - No authentication required.
// Returns 201 Created with the new client (password hash excluded).
func (h *PrincipalHandler) RegisterClientHandler(c *gin.Context) {
	var req dto.RegisterClientRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	client, err := h.principalUseCase.RegisterClient(
		c.Request.Context(),
		req.Email,
		req.Password,
		req.OrganizationName,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapClientToResponse(client))
}

// ProfileHandler returns the authenticated principal's own profile.
// GET /v1/profile - Requires authentication.
func (h *PrincipalHandler) ProfileHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPrincipalToProfileResponse(principal))
}

// GetClientHandler fetches a client principal by id.
// GET /v1/clients/:id - Requires authentication.
//
// Access rules:
//   - active staff admins, or active technicians holding the clients:read
//     permission, may view any client
//   - a client may view itself
//   - an organization lead may view clients of the same organization
func (h *PrincipalHandler) GetClientHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid client id: must be a valid UUID"),
			h.logger)
		return
	}

	client, err := h.principalUseCase.GetClient(c.Request.Context(), clientID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if !h.mayViewClient(principal, client) {
		h.logger.Debug("client lookup denied",
			slog.String("principal_id", principal.ID().String()),
			slog.String("client_id", clientID.String()))
		httputil.HandleErrorGin(c, apperrors.ErrForbidden, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapClientToResponse(client))
}

// mayViewClient applies the access rules for client lookups.
func (h *PrincipalHandler) mayViewClient(
	principal principalDomain.Principal,
	client *principalDomain.Client,
) bool {
	if principal.Realm == principalDomain.RealmStaff {
		return principal.Staff != nil && principal.Staff.Active &&
			principal.Staff.HasPermission(PermissionClientsRead)
	}
	return authz.CanAccess(principal.Client, client)
}
