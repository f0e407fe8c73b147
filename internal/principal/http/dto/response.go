// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	"github.com/suportify/helpdesk/internal/principal/domain"
)

// ClientResponse represents a client principal in API responses (excludes
// the password hash).
type ClientResponse struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	OrganizationName   string    `json:"organization_name,omitempty"`
	IsOrganizationLead bool      `json:"is_organization_lead"`
	CreatedAt          time.Time `json:"created_at"`
}

// MapClientToResponse converts a domain client to an API response.
func MapClientToResponse(client *domain.Client) ClientResponse {
	return ClientResponse{
		ID:                 client.ID.String(),
		Email:              client.Email,
		OrganizationName:   client.OrganizationName,
		IsOrganizationLead: client.IsOrganizationLead,
		CreatedAt:          client.CreatedAt,
	}
}

// StaffResponse represents a staff principal in API responses (excludes the
// password hash).
type StaffResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// MapStaffToResponse converts a domain staff member to an API response.
func MapStaffToResponse(staff *domain.Staff) StaffResponse {
	return StaffResponse{
		ID:          staff.ID.String(),
		Email:       staff.Email,
		Role:        string(staff.Role),
		Permissions: staff.Permissions,
		Active:      staff.Active,
		CreatedAt:   staff.CreatedAt,
	}
}

// ProfileResponse represents the authenticated principal's own profile.
type ProfileResponse struct {
	Realm  string          `json:"realm"`
	Client *ClientResponse `json:"client,omitempty"`
	Staff  *StaffResponse  `json:"staff,omitempty"`
}

// MapPrincipalToProfileResponse converts a resolved principal to a profile
// response for whichever realm it belongs to.
func MapPrincipalToProfileResponse(principal domain.Principal) ProfileResponse {
	resp := ProfileResponse{Realm: string(principal.Realm)}
	if principal.Client != nil {
		client := MapClientToResponse(principal.Client)
		resp.Client = &client
	}
	if principal.Staff != nil {
		staff := MapStaffToResponse(principal.Staff)
		resp.Staff = &staff
	}
	return resp
}
