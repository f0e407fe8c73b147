package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/suportify/helpdesk/internal/auth/domain"
	authService "github.com/suportify/helpdesk/internal/auth/service"
	principalDomain "github.com/suportify/helpdesk/internal/principal/domain"
)

// fakeStore is an in-memory principal Store.
type fakeStore struct {
	clients map[uuid.UUID]*principalDomain.Client
	staff   map[uuid.UUID]*principalDomain.Staff
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		clients: make(map[uuid.UUID]*principalDomain.Client),
		staff:   make(map[uuid.UUID]*principalDomain.Staff),
	}
}

func (f *fakeStore) FindByID(
	_ context.Context,
	realm principalDomain.Realm,
	id uuid.UUID,
) (principalDomain.Principal, error) {
	switch realm {
	case principalDomain.RealmClient:
		if client, ok := f.clients[id]; ok {
			return principalDomain.Principal{Realm: realm, Client: client}, nil
		}
		return principalDomain.Principal{}, principalDomain.ErrClientNotFound
	case principalDomain.RealmStaff:
		if staff, ok := f.staff[id]; ok {
			return principalDomain.Principal{Realm: realm, Staff: staff}, nil
		}
		return principalDomain.Principal{}, principalDomain.ErrStaffNotFound
	}
	return principalDomain.Principal{}, principalDomain.ErrInvalidRealm
}

func (f *fakeStore) FindByEmail(
	_ context.Context,
	realm principalDomain.Realm,
	email string,
) (principalDomain.Principal, error) {
	switch realm {
	case principalDomain.RealmClient:
		for _, client := range f.clients {
			if client.Email == email {
				return principalDomain.Principal{Realm: realm, Client: client}, nil
			}
		}
		return principalDomain.Principal{}, principalDomain.ErrClientNotFound
	case principalDomain.RealmStaff:
		for _, staff := range f.staff {
			if staff.Email == email {
				return principalDomain.Principal{Realm: realm, Staff: staff}, nil
			}
		}
		return principalDomain.Principal{}, principalDomain.ErrStaffNotFound
	}
	return principalDomain.Principal{}, principalDomain.ErrInvalidRealm
}

func newResolverFixture(t *testing.T) (IdentityResolver, authService.TokenService, *fakeStore) {
	t.Helper()
	tokens, err := authService.NewTokenService("resolver-test-secret", 24*time.Hour, 720*time.Hour)
	require.NoError(t, err)
	store := newFakeStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewIdentityResolver(tokens, store, logger), tokens, store
}

func TestIdentityResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("StaffTokenResolvesStaff", func(t *testing.T) {
		resolver, tokens, store := newResolverFixture(t)
		id := uuid.Must(uuid.NewV7())
		store.staff[id] = &principalDomain.Staff{ID: id, Email: "tech@support.example", Active: true}

		token, _, err := tokens.Issue(id, principalDomain.RealmStaff)
		require.NoError(t, err)

		principal, err := resolver.Resolve(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, principalDomain.RealmStaff, principal.Realm)
		assert.Equal(t, id, principal.ID())
	})

	t.Run("ClientTokenResolvesClient", func(t *testing.T) {
		resolver, tokens, store := newResolverFixture(t)
		id := uuid.Must(uuid.NewV7())
		store.clients[id] = &principalDomain.Client{ID: id, Email: "c@acme.example"}

		token, _, err := tokens.Issue(id, principalDomain.RealmClient)
		require.NoError(t, err)

		principal, err := resolver.Resolve(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, principalDomain.RealmClient, principal.Realm)
	})

	t.Run("CrossRealmFallback", func(t *testing.T) {
		resolver, tokens, store := newResolverFixture(t)
		id := uuid.Must(uuid.NewV7())
		// Subject exists only in the client store, but the token carries
		// the staff realm flag.
		store.clients[id] = &principalDomain.Client{ID: id, Email: "legacy@acme.example"}

		token, _, err := tokens.Issue(id, principalDomain.RealmStaff)
		require.NoError(t, err)

		principal, err := resolver.Resolve(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, principalDomain.RealmClient, principal.Realm)
		assert.Equal(t, "legacy@acme.example", principal.Email())
	})

	t.Run("UnknownSubjectInBothRealms", func(t *testing.T) {
		resolver, tokens, _ := newResolverFixture(t)

		token, _, err := tokens.Issue(uuid.Must(uuid.NewV7()), principalDomain.RealmStaff)
		require.NoError(t, err)

		_, err = resolver.Resolve(ctx, token)
		assert.ErrorIs(t, err, authDomain.ErrPrincipalNotFound)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		resolver, _, _ := newResolverFixture(t)

		_, err := resolver.Resolve(ctx, "garbage.token.value")
		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
	})

	t.Run("ForeignSignature", func(t *testing.T) {
		resolver, _, store := newResolverFixture(t)
		id := uuid.Must(uuid.NewV7())
		store.staff[id] = &principalDomain.Staff{ID: id, Active: true}

		foreign, err := authService.NewTokenService("other-secret", 24*time.Hour, 720*time.Hour)
		require.NoError(t, err)
		token, _, err := foreign.Issue(id, principalDomain.RealmStaff)
		require.NoError(t, err)

		_, err = resolver.Resolve(ctx, token)
		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
	})
}
