// Package usecase implements the vault operations: organization lifecycle,
// transparent field encryption at the persistence boundary, and serialized
// per-organization sub-list mutation.
package usecase

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/suportify/helpdesk/internal/vault/domain"
)

// VaultRepository is the persistence contract for vault records. All string
// values cross this boundary already encrypted; the repository never sees
// plaintext secrets.
type VaultRepository interface {
	Create(ctx context.Context, record *domain.Record) error
	GetByOrganization(ctx context.Context, organizationName string) (*domain.Record, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Record, error)
	Update(ctx context.Context, record *domain.Record) error
	AddCredential(ctx context.Context, organizationName string, credential *domain.Credential) error
	RemoveCredential(ctx context.Context, organizationName string, credentialID uuid.UUID) error
	AddRemoteAccess(ctx context.Context, organizationName string, entry *domain.RemoteAccessEntry) error
	RemoveRemoteAccess(ctx context.Context, organizationName string, entryID uuid.UUID) error
	SetDiagram(ctx context.Context, organizationName string, blob []byte) error
	SetLayout(ctx context.Context, organizationName string, blob []byte) error
}

// VaultUseCase exposes the vault operations consumed by the HTTP surface.
// Callers always see and send plaintext; encryption happens inside.
type VaultUseCase interface {
	// CreateOrganization creates an empty vault for the organization name.
	// The name is trimmed first; a duplicate name is a conflict.
	CreateOrganization(ctx context.Context, organizationName string) (*domain.Record, error)
	// Get fetches the full decrypted vault record.
	Get(ctx context.Context, organizationName string) (*domain.Record, error)
	// List fetches decrypted vault records without sub-lists.
	List(ctx context.Context, offset, limit int) ([]*domain.Record, error)
	// Upsert applies a scalar patch, creating the vault first if absent.
	Upsert(ctx context.Context, organizationName string, patch *domain.UpdatePatch) (*domain.Record, error)
	// AddCredential appends a credential entry and returns it with its new id.
	AddCredential(ctx context.Context, organizationName string, entry domain.Credential) (*domain.Credential, error)
	// RemoveCredential removes a credential entry by id.
	RemoveCredential(ctx context.Context, organizationName string, credentialID uuid.UUID) error
	// AddRemoteAccess appends a remote-access entry and returns it with its new id.
	AddRemoteAccess(
		ctx context.Context,
		organizationName string,
		entry domain.RemoteAccessEntry,
	) (*domain.RemoteAccessEntry, error)
	// RemoveRemoteAccess removes a remote-access entry by id.
	RemoveRemoteAccess(ctx context.Context, organizationName string, entryID uuid.UUID) error
	// SetDiagram stores the opaque diagram blob.
	SetDiagram(ctx context.Context, organizationName string, blob json.RawMessage) error
	// SetLayout stores the opaque layout blob.
	SetLayout(ctx context.Context, organizationName string, blob json.RawMessage) error
}
