// Package domain defines the per-organization vault record and its encrypted
// sub-documents.
//
// A vault record carries free-text notes, service credentials, remote-access
// entries and network information for one organization. Sensitive fields are
// persisted through the field cipher; the domain types always hold plaintext.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Credential is one named service credential inside a vault.
type Credential struct {
	// ID is the stable identifier used for removal; entries are addressed by
	// id, never by position.
	ID           uuid.UUID
	ServiceLabel string
	Username     string
	Password     string
	CreatedAt    time.Time
}

// RemoteAccessEntry is one remote-access target inside a vault (VPN, RDP,
// SSH and similar).
type RemoteAccessEntry struct {
	ID         uuid.UUID
	Title      string
	AccessType string
	Identifier string
	Password   string
	Notes      string
	CreatedAt  time.Time
}

// NetworkInfo describes the organization's network. Each field may be empty.
type NetworkInfo struct {
	IPAddress  string
	SubnetMask string
	Gateway    string
}

// Record is the per-organization vault. OrganizationName is the unique
// lookup key; a record can exist before any client principal is linked to
// it.
type Record struct {
	ID               uuid.UUID
	OrganizationName string
	// OwnerPrincipalID references the client principal this vault most
	// directly belongs to; nil while unlinked.
	OwnerPrincipalID    *uuid.UUID
	Notes               string
	Credentials         []Credential
	RemoteAccessEntries []RemoteAccessEntry
	NetworkInfo         NetworkInfo
	// DiagramData and LayoutData are opaque visual-state blobs, stored
	// unencrypted.
	DiagramData json.RawMessage
	LayoutData  json.RawMessage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UpdatePatch carries the scalar fields of an upsert. Nil fields are left
// untouched.
type UpdatePatch struct {
	OwnerPrincipalID *uuid.UUID
	Notes            *string
	NetworkInfo      *NetworkInfo
}

// Empty reports whether the patch changes nothing.
func (p *UpdatePatch) Empty() bool {
	return p == nil || (p.OwnerPrincipalID == nil && p.Notes == nil && p.NetworkInfo == nil)
}
