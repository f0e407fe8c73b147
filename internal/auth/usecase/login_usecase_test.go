package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/suportify/helpdesk/internal/auth/domain"
	authService "github.com/suportify/helpdesk/internal/auth/service"
	principalDomain "github.com/suportify/helpdesk/internal/principal/domain"
	principalService "github.com/suportify/helpdesk/internal/principal/service"
)

func newLoginFixture(t *testing.T) (LoginUseCase, *fakeStore, principalService.PasswordService) {
	t.Helper()
	tokens, err := authService.NewTokenService("login-test-secret", 24*time.Hour, 720*time.Hour)
	require.NoError(t, err)
	store := newFakeStore()
	passwords, err := principalService.NewPasswordService()
	require.NoError(t, err)
	return NewLoginUseCase(store, tokens, passwords), store, passwords
}

func TestLoginUseCase_ClientLogin(t *testing.T) {
	ctx := context.Background()
	uc, store, passwords := newLoginFixture(t)

	hashed, err := passwords.Hash("correct horse battery")
	require.NoError(t, err)

	id := uuid.Must(uuid.NewV7())
	store.clients[id] = &principalDomain.Client{
		ID:       id,
		Email:    "owner@acme.example",
		Password: hashed,
	}

	t.Run("Success", func(t *testing.T) {
		result, err := uc.ClientLogin(ctx, "owner@acme.example", "correct horse battery")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, id, result.Principal.ID())
		assert.Equal(t, principalDomain.RealmClient, result.Principal.Realm)
		assert.WithinDuration(t, time.Now().UTC().Add(720*time.Hour), result.ExpiresAt, time.Minute)
	})

	t.Run("EmailIsNormalized", func(t *testing.T) {
		result, err := uc.ClientLogin(ctx, "  Owner@Acme.Example ", "correct horse battery")
		require.NoError(t, err)
		assert.Equal(t, id, result.Principal.ID())
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := uc.ClientLogin(ctx, "owner@acme.example", "wrong")
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})

	t.Run("UnknownEmailMasked", func(t *testing.T) {
		_, err := uc.ClientLogin(ctx, "nobody@acme.example", "correct horse battery")
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})
}

func TestLoginUseCase_StaffLogin(t *testing.T) {
	ctx := context.Background()
	uc, store, passwords := newLoginFixture(t)

	hashed, err := passwords.Hash("staff-password")
	require.NoError(t, err)

	activeID := uuid.Must(uuid.NewV7())
	store.staff[activeID] = &principalDomain.Staff{
		ID:       activeID,
		Email:    "tech@support.example",
		Password: hashed,
		Role:     principalDomain.RoleTechnician,
		Active:   true,
	}

	inactiveID := uuid.Must(uuid.NewV7())
	store.staff[inactiveID] = &principalDomain.Staff{
		ID:       inactiveID,
		Email:    "former@support.example",
		Password: hashed,
		Role:     principalDomain.RoleTechnician,
		Active:   false,
	}

	t.Run("Success", func(t *testing.T) {
		result, err := uc.StaffLogin(ctx, "tech@support.example", "staff-password")
		require.NoError(t, err)
		assert.Equal(t, principalDomain.RealmStaff, result.Principal.Realm)
		assert.WithinDuration(t, time.Now().UTC().Add(24*time.Hour), result.ExpiresAt, time.Minute)
	})

	t.Run("InactiveStaffRejected", func(t *testing.T) {
		_, err := uc.StaffLogin(ctx, "former@support.example", "staff-password")
		assert.ErrorIs(t, err, authDomain.ErrStaffInactive)
	})

	t.Run("ClientEmailNotVisibleToStaffLogin", func(t *testing.T) {
		clientID := uuid.Must(uuid.NewV7())
		store.clients[clientID] = &principalDomain.Client{
			ID:       clientID,
			Email:    "client@acme.example",
			Password: hashed,
		}

		_, err := uc.StaffLogin(ctx, "client@acme.example", "staff-password")
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})
}
