// Package http provides HTTP handlers for the per-organization vault:
// organization lifecycle, credential and remote-access entries, and the
// opaque diagram and layout blobs.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/suportify/helpdesk/internal/httputil"
	customValidation "github.com/suportify/helpdesk/internal/validation"
	"github.com/suportify/helpdesk/internal/vault/domain"
	"github.com/suportify/helpdesk/internal/vault/http/dto"
	vaultUseCase "github.com/suportify/helpdesk/internal/vault/usecase"
)

// VaultHandler handles HTTP requests for vault operations.
type VaultHandler struct {
	vaultUseCase vaultUseCase.VaultUseCase
	logger       *slog.Logger
}

// NewVaultHandler creates a new vault handler with required dependencies.
func NewVaultHandler(useCase vaultUseCase.VaultUseCase, logger *slog.Logger) *VaultHandler {
	return &VaultHandler{
		vaultUseCase: useCase,
		logger:       logger,
	}
}

// organizationName extracts and validates the organization name path parameter.
func (h *VaultHandler) organizationName(c *gin.Context) (string, bool) {
	name := c.Param("name")
	if name == "" {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("organization name cannot be empty"),
			h.logger,
		)
		return "", false
	}
	return name, true
}

// entryID extracts and validates the entry id path parameter.
func (h *VaultHandler) entryID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("invalid entry id: must be a UUID"),
			h.logger,
		)
		return uuid.Nil, false
	}
	return id, true
}

// CreateOrganizationHandler creates an empty vault for an organization.
// POST /v1/vault/organizations
// Returns 201 Created with the new vault record.
func (h *VaultHandler) CreateOrganizationHandler(c *gin.Context) {
	var req dto.CreateOrganizationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	record, err := h.vaultUseCase.CreateOrganization(c.Request.Context(), req.Name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapVaultToResponse(record))
}

// ListHandler retrieves vault records with pagination support.
// GET /v1/vault/organizations?offset=0&limit=50
// Returns 200 OK with the paginated list. Sub-lists are not included.
func (h *VaultHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	records, err := h.vaultUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapVaultsToListResponse(records))
}

// GetHandler retrieves the full decrypted vault record of an organization.
// GET /v1/vault/organizations/:name
// Returns 200 OK with credentials and remote-access entries included.
func (h *VaultHandler) GetHandler(c *gin.Context) {
	name, ok := h.organizationName(c)
	if !ok {
		return
	}

	record, err := h.vaultUseCase.Get(c.Request.Context(), name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapVaultToResponse(record))
}

// UpsertHandler applies a scalar patch to a vault, creating it first when absent.
// PUT /v1/vault/organizations/:name
// Returns 200 OK with the resulting record.
func (h *VaultHandler) UpsertHandler(c *gin.Context) {
	name, ok := h.organizationName(c)
	if !ok {
		return
	}

	var req dto.UpsertVaultRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	patch := req.ToPatch()
	if req.OwnerPrincipalID != nil {
		ownerID, err := uuid.Parse(*req.OwnerPrincipalID)
		if err != nil {
			httputil.HandleValidationErrorGin(
				c,
				fmt.Errorf("invalid owner principal id: must be a UUID"),
				h.logger,
			)
			return
		}
		patch.OwnerPrincipalID = &ownerID
	}

	record, err := h.vaultUseCase.Upsert(c.Request.Context(), name, patch)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapVaultToResponse(record))
}

// AddCredentialHandler appends a credential entry to a vault.
// POST /v1/vault/organizations/:name/credentials
// Returns 201 Created with the stored entry and its generated id.
func (h *VaultHandler) AddCredentialHandler(c *gin.Context) {
	name, ok := h.organizationName(c)
	if !ok {
		return
	}

	var req dto.AddCredentialRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	entry, err := h.vaultUseCase.AddCredential(c.Request.Context(), name, domain.Credential{
		ServiceLabel: req.ServiceLabel,
		Username:     req.Username,
		Password:     req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCredentialToResponse(entry))
}

// RemoveCredentialHandler removes a credential entry by id.
// DELETE /v1/vault/organizations/:name/credentials/:id
// Returns 204 No Content.
func (h *VaultHandler) RemoveCredentialHandler(c *gin.Context) {
	name, ok := h.organizationName(c)
	if !ok {
		return
	}

	id, ok := h.entryID(c)
	if !ok {
		return
	}

	if err := h.vaultUseCase.RemoveCredential(c.Request.Context(), name, id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// AddRemoteAccessHandler appends a remote-access entry to a vault.
// POST /v1/vault/organizations/:name/remote-access
// Returns 201 Created with the stored entry and its generated id.
func (h *VaultHandler) AddRemoteAccessHandler(c *gin.Context) {
	name, ok := h.organizationName(c)
	if !ok {
		return
	}

	var req dto.AddRemoteAccessRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	entry, err := h.vaultUseCase.AddRemoteAccess(c.Request.Context(), name, domain.RemoteAccessEntry{
		Title:      req.Title,
		AccessType: req.AccessType,
		Identifier: req.Identifier,
		Password:   req.Password,
		Notes:      req.Notes,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapRemoteAccessToResponse(entry))
}

// RemoveRemoteAccessHandler removes a remote-access entry by id.
// DELETE /v1/vault/organizations/:name/remote-access/:id
// Returns 204 No Content.
func (h *VaultHandler) RemoveRemoteAccessHandler(c *gin.Context) {
	name, ok := h.organizationName(c)
	if !ok {
		return
	}

	id, ok := h.entryID(c)
	if !ok {
		return
	}

	if err := h.vaultUseCase.RemoveRemoteAccess(c.Request.Context(), name, id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// SetDiagramHandler stores the opaque diagram document of a vault.
// PUT /v1/vault/organizations/:name/diagram
// The body is any valid JSON document and is stored as-is.
// Returns 204 No Content.
func (h *VaultHandler) SetDiagramHandler(c *gin.Context) {
	h.setBlob(c, h.vaultUseCase.SetDiagram)
}

// SetLayoutHandler stores the opaque layout document of a vault.
// PUT /v1/vault/organizations/:name/layout
// The body is any valid JSON document and is stored as-is.
// Returns 204 No Content.
func (h *VaultHandler) SetLayoutHandler(c *gin.Context) {
	h.setBlob(c, h.vaultUseCase.SetLayout)
}

// GetDiagramHandler retrieves the stored diagram document of a vault.
// GET /v1/vault/organizations/:name/diagram
// Returns 200 OK with the raw JSON document, or null when none is stored.
func (h *VaultHandler) GetDiagramHandler(c *gin.Context) {
	h.getBlob(c, func(record *domain.Record) json.RawMessage { return record.DiagramData })
}

// GetLayoutHandler retrieves the stored layout document of a vault.
// GET /v1/vault/organizations/:name/layout
// Returns 200 OK with the raw JSON document, or null when none is stored.
func (h *VaultHandler) GetLayoutHandler(c *gin.Context) {
	h.getBlob(c, func(record *domain.Record) json.RawMessage { return record.LayoutData })
}

func (h *VaultHandler) setBlob(
	c *gin.Context,
	store func(ctx context.Context, organizationName string, blob json.RawMessage) error,
) {
	name, ok := h.organizationName(c)
	if !ok {
		return
	}

	var blob json.RawMessage
	if err := c.ShouldBindJSON(&blob); err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("body must be a valid JSON document"), h.logger)
		return
	}

	if err := store(c.Request.Context(), name, blob); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

func (h *VaultHandler) getBlob(c *gin.Context, pick func(record *domain.Record) json.RawMessage) {
	name, ok := h.organizationName(c)
	if !ok {
		return
	}

	record, err := h.vaultUseCase.Get(c.Request.Context(), name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	blob := pick(record)
	if len(blob) == 0 {
		blob = json.RawMessage("null")
	}

	c.Data(http.StatusOK, "application/json", blob)
}
