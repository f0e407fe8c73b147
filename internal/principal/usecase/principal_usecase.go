package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/suportify/helpdesk/internal/errors"
	"github.com/suportify/helpdesk/internal/principal/domain"
	"github.com/suportify/helpdesk/internal/principal/service"
)

// principalUseCase implements PrincipalUseCase.
type principalUseCase struct {
	clientRepo      ClientRepository
	staffRepo       StaffRepository
	passwordService service.PasswordService
}

// NewPrincipalUseCase creates a principal use case instance.
func NewPrincipalUseCase(
	clientRepo ClientRepository,
	staffRepo StaffRepository,
	passwordService service.PasswordService,
) PrincipalUseCase {
	return &principalUseCase{
		clientRepo:      clientRepo,
		staffRepo:       staffRepo,
		passwordService: passwordService,
	}
}

// RegisterClient creates a new client-realm principal.
func (u *principalUseCase) RegisterClient(
	ctx context.Context,
	email, plainPassword, organizationName string,
) (*domain.Client, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	// Organization names are trimmed when first recorded; all later
	// comparisons (vault uniqueness, relationship checks) are exact.
	organizationName = strings.TrimSpace(organizationName)

	// Each realm enforces email uniqueness on its own, so a staff member
	// could otherwise register the same address as a client. Reject it here.
	if _, err := u.staffRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailAlreadyExists
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hashed, err := u.passwordService.Hash(plainPassword)
	if err != nil {
		return nil, err
	}

	client := &domain.Client{
		ID:               uuid.Must(uuid.NewV7()),
		Email:            email,
		Password:         hashed,
		OrganizationName: organizationName,
	}

	if err := u.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// CreateStaff creates a new staff-realm principal.
func (u *principalUseCase) CreateStaff(
	ctx context.Context,
	email, plainPassword string,
	role domain.Role,
	permissions []string,
	active bool,
) (*domain.Staff, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if role != domain.RoleAdmin && role != domain.RoleTechnician {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid staff role")
	}

	if _, err := u.clientRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailAlreadyExists
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hashed, err := u.passwordService.Hash(plainPassword)
	if err != nil {
		return nil, err
	}

	staff := &domain.Staff{
		ID:          uuid.Must(uuid.NewV7()),
		Email:       email,
		Password:    hashed,
		Role:        role,
		Permissions: permissions,
		Active:      active,
	}

	if err := u.staffRepo.Create(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// GetClient fetches a client principal by id.
func (u *principalUseCase) GetClient(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	return u.clientRepo.GetByID(ctx, id)
}

// SetOrganizationLead grants or revokes the organization-lead capability.
func (u *principalUseCase) SetOrganizationLead(
	ctx context.Context,
	id uuid.UUID,
	lead bool,
) (*domain.Client, error) {
	client, err := u.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// A lead without an organization could never match any affiliate, so
	// granting the capability to an unaffiliated client is rejected.
	if lead && client.OrganizationName == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "client does not belong to an organization")
	}

	if client.IsOrganizationLead == lead {
		return client, nil
	}

	client.IsOrganizationLead = lead
	if err := u.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}
