// Package usecase implements principal registration, profile management and
// the uniform lookup adapter over the two realm stores.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/suportify/helpdesk/internal/principal/domain"
)

// ClientRepository is the client-realm principal store.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
}

// StaffRepository is the staff-realm principal store.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.Staff) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error)
	GetByEmail(ctx context.Context, email string) (*domain.Staff, error)
}

// Store is the uniform lookup contract over both realm stores. It is
// consumed by the identity resolver and by collaborators that only need
// lookups (ticketing, notifications).
type Store interface {
	FindByID(ctx context.Context, realm domain.Realm, id uuid.UUID) (domain.Principal, error)
	FindByEmail(ctx context.Context, realm domain.Realm, email string) (domain.Principal, error)
}

// PrincipalUseCase exposes registration and profile operations.
type PrincipalUseCase interface {
	// RegisterClient creates a new client-realm principal. The email must be
	// unused in both realms: each realm enforces uniqueness independently,
	// but registration rejects cross-realm duplicates to keep logins
	// unambiguous.
	RegisterClient(ctx context.Context, email, plainPassword, organizationName string) (*domain.Client, error)
	// CreateStaff creates a new staff-realm principal.
	CreateStaff(
		ctx context.Context,
		email, plainPassword string,
		role domain.Role,
		permissions []string,
		active bool,
	) (*domain.Staff, error)
	// GetClient fetches a client principal by id.
	GetClient(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	// SetOrganizationLead grants or revokes the organization-lead capability
	// on a client principal. Granting requires the client to belong to an
	// organization.
	SetOrganizationLead(ctx context.Context, id uuid.UUID, lead bool) (*domain.Client, error)
}
