// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/suportify/helpdesk/internal/vault/domain"
	customValidation "github.com/suportify/helpdesk/internal/validation"
)

// CreateOrganizationRequest contains the parameters for creating a vault.
type CreateOrganizationRequest struct {
	Name string `json:"name"`
}

// Validate checks if the create organization request is valid.
func (r *CreateOrganizationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
}

// NetworkInfoPayload carries the plaintext network fields of a vault.
type NetworkInfoPayload struct {
	IPAddress  string `json:"ip_address"`
	SubnetMask string `json:"subnet_mask"`
	Gateway    string `json:"gateway"`
}

// UpsertVaultRequest contains the scalar patch of an upsert. Absent fields
// are left untouched.
type UpsertVaultRequest struct {
	OwnerPrincipalID *string             `json:"owner_principal_id"`
	Notes            *string             `json:"notes"`
	NetworkInfo      *NetworkInfoPayload `json:"network_info"`
}

// Validate checks if the upsert request is valid.
func (r *UpsertVaultRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.OwnerPrincipalID,
			validation.NilOrNotEmpty,
			validation.By(func(value interface{}) error {
				id, ok := value.(*string)
				if !ok || id == nil {
					return nil
				}
				return validation.Validate(*id, validation.Required, customValidation.UUID)
			}),
		),
	)
}

// ToPatch converts the request to a domain patch. The owner id must already
// be validated.
func (r *UpsertVaultRequest) ToPatch() *domain.UpdatePatch {
	patch := &domain.UpdatePatch{Notes: r.Notes}
	if r.NetworkInfo != nil {
		patch.NetworkInfo = &domain.NetworkInfo{
			IPAddress:  r.NetworkInfo.IPAddress,
			SubnetMask: r.NetworkInfo.SubnetMask,
			Gateway:    r.NetworkInfo.Gateway,
		}
	}
	return patch
}

// AddCredentialRequest contains a plaintext credential entry.
type AddCredentialRequest struct {
	ServiceLabel string `json:"service_label"`
	Username     string `json:"username"`
	Password     string `json:"password"`
}

// Validate checks if the add credential request is valid.
func (r *AddCredentialRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ServiceLabel,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Username,
			validation.Required,
		),
		validation.Field(&r.Password,
			validation.Required,
		),
	)
}

// AddRemoteAccessRequest contains a plaintext remote-access entry.
type AddRemoteAccessRequest struct {
	Title      string `json:"title"`
	AccessType string `json:"access_type"`
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	Notes      string `json:"notes"`
}

// Validate checks if the add remote access request is valid.
func (r *AddRemoteAccessRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.AccessType,
			validation.Required,
			validation.In("vpn", "rdp", "ssh", "teamviewer", "anydesk", "other"),
		),
		validation.Field(&r.Identifier,
			validation.Required,
		),
	)
}
