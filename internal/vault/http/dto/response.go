// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"encoding/json"
	"time"

	"github.com/suportify/helpdesk/internal/vault/domain"
)

// CredentialResponse represents a decrypted credential entry in API responses.
type CredentialResponse struct {
	ID           string    `json:"id"`
	ServiceLabel string    `json:"service_label"`
	Username     string    `json:"username"`
	Password     string    `json:"password"`
	CreatedAt    time.Time `json:"created_at"`
}

// RemoteAccessResponse represents a decrypted remote-access entry in API responses.
type RemoteAccessResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	AccessType string    `json:"access_type"`
	Identifier string    `json:"identifier"`
	Password   string    `json:"password"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NetworkInfoResponse represents the decrypted network fields in API responses.
type NetworkInfoResponse struct {
	IPAddress  string `json:"ip_address,omitempty"`
	SubnetMask string `json:"subnet_mask,omitempty"`
	Gateway    string `json:"gateway,omitempty"`
}

// VaultResponse represents a vault record in API responses. All sensitive
// fields are plaintext; decryption happened in the use case.
type VaultResponse struct {
	ID                  string                 `json:"id"`
	OrganizationName    string                 `json:"organization_name"`
	OwnerPrincipalID    string                 `json:"owner_principal_id,omitempty"`
	Notes               string                 `json:"notes,omitempty"`
	Credentials         []CredentialResponse   `json:"credentials"`
	RemoteAccessEntries []RemoteAccessResponse `json:"remote_access_entries"`
	NetworkInfo         NetworkInfoResponse    `json:"network_info"`
	DiagramData         json.RawMessage        `json:"diagram_data,omitempty"`
	LayoutData          json.RawMessage        `json:"layout_data,omitempty"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// MapCredentialToResponse converts a domain credential to an API response.
func MapCredentialToResponse(credential *domain.Credential) CredentialResponse {
	return CredentialResponse{
		ID:           credential.ID.String(),
		ServiceLabel: credential.ServiceLabel,
		Username:     credential.Username,
		Password:     credential.Password,
		CreatedAt:    credential.CreatedAt,
	}
}

// MapRemoteAccessToResponse converts a domain remote-access entry to an API response.
func MapRemoteAccessToResponse(entry *domain.RemoteAccessEntry) RemoteAccessResponse {
	return RemoteAccessResponse{
		ID:         entry.ID.String(),
		Title:      entry.Title,
		AccessType: entry.AccessType,
		Identifier: entry.Identifier,
		Password:   entry.Password,
		Notes:      entry.Notes,
		CreatedAt:  entry.CreatedAt,
	}
}

// MapVaultToResponse converts a domain vault record to an API response.
func MapVaultToResponse(record *domain.Record) VaultResponse {
	response := VaultResponse{
		ID:                  record.ID.String(),
		OrganizationName:    record.OrganizationName,
		Notes:               record.Notes,
		Credentials:         make([]CredentialResponse, 0, len(record.Credentials)),
		RemoteAccessEntries: make([]RemoteAccessResponse, 0, len(record.RemoteAccessEntries)),
		NetworkInfo: NetworkInfoResponse{
			IPAddress:  record.NetworkInfo.IPAddress,
			SubnetMask: record.NetworkInfo.SubnetMask,
			Gateway:    record.NetworkInfo.Gateway,
		},
		DiagramData: record.DiagramData,
		LayoutData:  record.LayoutData,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
	if record.OwnerPrincipalID != nil {
		response.OwnerPrincipalID = record.OwnerPrincipalID.String()
	}
	for i := range record.Credentials {
		response.Credentials = append(response.Credentials, MapCredentialToResponse(&record.Credentials[i]))
	}
	for i := range record.RemoteAccessEntries {
		response.RemoteAccessEntries = append(
			response.RemoteAccessEntries,
			MapRemoteAccessToResponse(&record.RemoteAccessEntries[i]),
		)
	}
	return response
}

// ListVaultsResponse represents a paginated list of vault records.
type ListVaultsResponse struct {
	Data []VaultResponse `json:"data"`
}

// MapVaultsToListResponse converts a slice of vault records to a list API response.
func MapVaultsToListResponse(records []*domain.Record) ListVaultsResponse {
	responses := make([]VaultResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, MapVaultToResponse(record))
	}
	return ListVaultsResponse{Data: responses}
}
