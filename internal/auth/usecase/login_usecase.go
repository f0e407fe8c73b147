package usecase

import (
	"context"
	"strings"
	"time"

	authDomain "github.com/suportify/helpdesk/internal/auth/domain"
	authService "github.com/suportify/helpdesk/internal/auth/service"
	apperrors "github.com/suportify/helpdesk/internal/errors"
	principalDomain "github.com/suportify/helpdesk/internal/principal/domain"
	principalService "github.com/suportify/helpdesk/internal/principal/service"
	principalUseCase "github.com/suportify/helpdesk/internal/principal/usecase"
)

// LoginUseCase authenticates credentials against one realm and issues a
// bearer token for it. The realm is fixed by the endpoint called, not by
// anything in the request body.
type LoginUseCase interface {
	ClientLogin(ctx context.Context, email, plainPassword string) (*LoginResult, error)
	StaffLogin(ctx context.Context, email, plainPassword string) (*LoginResult, error)
}

// LoginResult carries the issued token and the resolved principal.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Principal principalDomain.Principal
}

// loginUseCase implements LoginUseCase.
type loginUseCase struct {
	store           principalUseCase.Store
	tokenService    authService.TokenService
	passwordService principalService.PasswordService
}

// NewLoginUseCase creates a LoginUseCase.
func NewLoginUseCase(
	store principalUseCase.Store,
	tokenService authService.TokenService,
	passwordService principalService.PasswordService,
) LoginUseCase {
	return &loginUseCase{
		store:           store,
		tokenService:    tokenService,
		passwordService: passwordService,
	}
}

// ClientLogin authenticates a client-realm principal.
func (u *loginUseCase) ClientLogin(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	return u.login(ctx, principalDomain.RealmClient, email, plainPassword)
}

// StaffLogin authenticates a staff-realm principal. Deactivated staff are
// rejected with a Forbidden error even when the password is correct.
func (u *loginUseCase) StaffLogin(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	result, err := u.login(ctx, principalDomain.RealmStaff, email, plainPassword)
	if err != nil {
		return nil, err
	}
	if !result.Principal.Staff.Active {
		return nil, authDomain.ErrStaffInactive
	}
	return result, nil
}

func (u *loginUseCase) login(
	ctx context.Context,
	realm principalDomain.Realm,
	email, plainPassword string,
) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	principal, err := u.store.FindByEmail(ctx, realm, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			// Hide whether the email exists.
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	hashed := ""
	switch realm {
	case principalDomain.RealmClient:
		hashed = principal.Client.Password
	case principalDomain.RealmStaff:
		hashed = principal.Staff.Password
	}

	if !u.passwordService.Verify(plainPassword, hashed) {
		return nil, authDomain.ErrInvalidCredentials
	}

	token, expiresAt, err := u.tokenService.Issue(principal.ID(), realm)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Principal: principal,
	}, nil
}
