package usecase

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/suportify/helpdesk/internal/crypto"
	apperrors "github.com/suportify/helpdesk/internal/errors"
	"github.com/suportify/helpdesk/internal/vault/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// fakeTxManager runs the function without a real transaction.
type fakeTxManager struct{}

func (fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeVaultRepository is an in-memory VaultRepository. It stores whatever the
// use case hands it, which lets tests observe that values cross the boundary
// encrypted.
type fakeVaultRepository struct {
	mu      sync.Mutex
	records map[string]*domain.Record
}

func newFakeVaultRepository() *fakeVaultRepository {
	return &fakeVaultRepository{records: make(map[string]*domain.Record)}
}

func copyRecord(record *domain.Record) *domain.Record {
	clone := *record
	clone.Credentials = append([]domain.Credential(nil), record.Credentials...)
	clone.RemoteAccessEntries = append([]domain.RemoteAccessEntry(nil), record.RemoteAccessEntries...)
	return &clone
}

func (f *fakeVaultRepository) Create(_ context.Context, record *domain.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[record.OrganizationName]; ok {
		return domain.ErrOrganizationAlreadyExists
	}
	f.records[record.OrganizationName] = copyRecord(record)
	return nil
}

func (f *fakeVaultRepository) GetByOrganization(
	_ context.Context,
	organizationName string,
) (*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[organizationName]
	if !ok {
		return nil, domain.ErrOrganizationNotFound
	}
	return copyRecord(record), nil
}

func (f *fakeVaultRepository) List(_ context.Context, offset, limit int) ([]*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	names := make([]string, 0, len(f.records))
	for name := range f.records {
		names = append(names, name)
	}
	sort.Strings(names)

	var records []*domain.Record
	for i, name := range names {
		if i < offset {
			continue
		}
		if len(records) == limit {
			break
		}
		clone := copyRecord(f.records[name])
		clone.Credentials = nil
		clone.RemoteAccessEntries = nil
		records = append(records, clone)
	}
	return records, nil
}

func (f *fakeVaultRepository) Update(_ context.Context, record *domain.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.records[record.OrganizationName]
	if !ok {
		return domain.ErrOrganizationNotFound
	}
	stored.OwnerPrincipalID = record.OwnerPrincipalID
	stored.Notes = record.Notes
	stored.NetworkInfo = record.NetworkInfo
	return nil
}

func (f *fakeVaultRepository) AddCredential(
	_ context.Context,
	organizationName string,
	credential *domain.Credential,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[organizationName]
	if !ok {
		return domain.ErrOrganizationNotFound
	}
	record.Credentials = append(record.Credentials, *credential)
	return nil
}

func (f *fakeVaultRepository) RemoveCredential(
	_ context.Context,
	organizationName string,
	credentialID uuid.UUID,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[organizationName]
	if !ok {
		return domain.ErrOrganizationNotFound
	}
	for i, credential := range record.Credentials {
		if credential.ID == credentialID {
			record.Credentials = append(record.Credentials[:i], record.Credentials[i+1:]...)
			return nil
		}
	}
	return domain.ErrCredentialNotFound
}

func (f *fakeVaultRepository) AddRemoteAccess(
	_ context.Context,
	organizationName string,
	entry *domain.RemoteAccessEntry,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[organizationName]
	if !ok {
		return domain.ErrOrganizationNotFound
	}
	record.RemoteAccessEntries = append(record.RemoteAccessEntries, *entry)
	return nil
}

func (f *fakeVaultRepository) RemoveRemoteAccess(
	_ context.Context,
	organizationName string,
	entryID uuid.UUID,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[organizationName]
	if !ok {
		return domain.ErrOrganizationNotFound
	}
	for i, entry := range record.RemoteAccessEntries {
		if entry.ID == entryID {
			record.RemoteAccessEntries = append(
				record.RemoteAccessEntries[:i],
				record.RemoteAccessEntries[i+1:]...,
			)
			return nil
		}
	}
	return domain.ErrRemoteAccessNotFound
}

func (f *fakeVaultRepository) SetDiagram(
	_ context.Context,
	organizationName string,
	blob []byte,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[organizationName]
	if !ok {
		return domain.ErrOrganizationNotFound
	}
	record.DiagramData = blob
	return nil
}

func (f *fakeVaultRepository) SetLayout(
	_ context.Context,
	organizationName string,
	blob []byte,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[organizationName]
	if !ok {
		return domain.ErrOrganizationNotFound
	}
	record.LayoutData = blob
	return nil
}

func newVaultFixture(t *testing.T, hexKey string) (VaultUseCase, *fakeVaultRepository) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newFakeVaultRepository()
	cipher := crypto.NewFieldCipher(hexKey, logger)
	return NewVaultUseCase(fakeTxManager{}, repo, cipher), repo
}

func TestVaultUseCase_CreateOrganization(t *testing.T) {
	ctx := context.Background()
	uc, _ := newVaultFixture(t, testKey)

	t.Run("Success", func(t *testing.T) {
		record, err := uc.CreateOrganization(ctx, "Acme")
		require.NoError(t, err)
		assert.Equal(t, "Acme", record.OrganizationName)
		assert.NotEqual(t, uuid.Nil, record.ID)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		_, err := uc.CreateOrganization(ctx, "Acme")
		assert.ErrorIs(t, err, domain.ErrOrganizationAlreadyExists)
	})

	t.Run("DuplicateAfterTrim", func(t *testing.T) {
		_, err := uc.CreateOrganization(ctx, "  Acme  ")
		assert.ErrorIs(t, err, domain.ErrOrganizationAlreadyExists)
	})

	t.Run("BlankName", func(t *testing.T) {
		_, err := uc.CreateOrganization(ctx, "   ")
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}

func TestVaultUseCase_EncryptionAtPersistenceBoundary(t *testing.T) {
	ctx := context.Background()
	uc, repo := newVaultFixture(t, testKey)

	_, err := uc.CreateOrganization(ctx, "Acme")
	require.NoError(t, err)

	notes := "router admin is in the wiring closet"
	_, err = uc.Upsert(ctx, "Acme", &domain.UpdatePatch{
		Notes: &notes,
		NetworkInfo: &domain.NetworkInfo{
			IPAddress:  "192.168.10.0",
			SubnetMask: "255.255.255.0",
			Gateway:    "192.168.10.1",
		},
	})
	require.NoError(t, err)

	credential, err := uc.AddCredential(ctx, "Acme", domain.Credential{
		ServiceLabel: "Mail server",
		Username:     "postmaster",
		Password:     "hunter2",
	})
	require.NoError(t, err)
	// The caller gets plaintext back.
	assert.Equal(t, "postmaster", credential.Username)

	// The repository only ever sees envelopes.
	stored := repo.records["Acme"]
	assert.NotEqual(t, notes, stored.Notes)
	assert.Contains(t, stored.Notes, ":")
	assert.Contains(t, stored.NetworkInfo.IPAddress, ":")
	require.Len(t, stored.Credentials, 1)
	assert.NotEqual(t, "hunter2", stored.Credentials[0].Password)
	assert.Contains(t, stored.Credentials[0].Password, ":")
	// The service label is metadata and stays readable.
	assert.Equal(t, "Mail server", stored.Credentials[0].ServiceLabel)

	// Reads decode transparently.
	record, err := uc.Get(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, notes, record.Notes)
	assert.Equal(t, "192.168.10.0", record.NetworkInfo.IPAddress)
	require.Len(t, record.Credentials, 1)
	assert.Equal(t, "hunter2", record.Credentials[0].Password)
}

func TestVaultUseCase_PassThroughWithoutKey(t *testing.T) {
	ctx := context.Background()
	uc, repo := newVaultFixture(t, "")

	_, err := uc.CreateOrganization(ctx, "Acme")
	require.NoError(t, err)

	notes := "plain value"
	_, err = uc.Upsert(ctx, "Acme", &domain.UpdatePatch{Notes: &notes})
	require.NoError(t, err)

	assert.Equal(t, notes, repo.records["Acme"].Notes)

	record, err := uc.Get(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, notes, record.Notes)
}

func TestVaultUseCase_CredentialRemovalByID(t *testing.T) {
	ctx := context.Background()
	uc, _ := newVaultFixture(t, testKey)

	_, err := uc.CreateOrganization(ctx, "Acme")
	require.NoError(t, err)

	first, err := uc.AddCredential(ctx, "Acme", domain.Credential{
		ServiceLabel: "Mail server",
		Username:     "postmaster",
		Password:     "one",
	})
	require.NoError(t, err)
	second, err := uc.AddCredential(ctx, "Acme", domain.Credential{
		ServiceLabel: "Backup NAS",
		Username:     "backup",
		Password:     "two",
	})
	require.NoError(t, err)

	require.NoError(t, uc.RemoveCredential(ctx, "Acme", first.ID))

	record, err := uc.Get(ctx, "Acme")
	require.NoError(t, err)
	require.Len(t, record.Credentials, 1)
	assert.Equal(t, second.ID, record.Credentials[0].ID)
	assert.Equal(t, "Backup NAS", record.Credentials[0].ServiceLabel)

	t.Run("UnknownID", func(t *testing.T) {
		err := uc.RemoveCredential(ctx, "Acme", uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, domain.ErrCredentialNotFound)
	})
}

func TestVaultUseCase_RemoteAccess(t *testing.T) {
	ctx := context.Background()
	uc, repo := newVaultFixture(t, testKey)

	_, err := uc.CreateOrganization(ctx, "Acme")
	require.NoError(t, err)

	entry, err := uc.AddRemoteAccess(ctx, "Acme", domain.RemoteAccessEntry{
		Title:      "Office VPN",
		AccessType: "vpn",
		Identifier: "vpn.acme.example",
		Password:   "s3cret",
		Notes:      "split tunnel",
	})
	require.NoError(t, err)

	stored := repo.records["Acme"].RemoteAccessEntries[0]
	assert.Contains(t, stored.Identifier, ":")
	assert.Contains(t, stored.Notes, ":")

	record, err := uc.Get(ctx, "Acme")
	require.NoError(t, err)
	require.Len(t, record.RemoteAccessEntries, 1)
	assert.Equal(t, "vpn.acme.example", record.RemoteAccessEntries[0].Identifier)
	assert.Equal(t, "split tunnel", record.RemoteAccessEntries[0].Notes)

	require.NoError(t, uc.RemoveRemoteAccess(ctx, "Acme", entry.ID))
	record, err = uc.Get(ctx, "Acme")
	require.NoError(t, err)
	assert.Empty(t, record.RemoteAccessEntries)
}

func TestVaultUseCase_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesWhenMissing", func(t *testing.T) {
		uc, _ := newVaultFixture(t, testKey)
		notes := "created by upsert"

		record, err := uc.Upsert(ctx, "Globex", &domain.UpdatePatch{Notes: &notes})
		require.NoError(t, err)
		assert.Equal(t, "Globex", record.OrganizationName)
		assert.Equal(t, notes, record.Notes)

		fetched, err := uc.Get(ctx, "Globex")
		require.NoError(t, err)
		assert.Equal(t, notes, fetched.Notes)
	})

	t.Run("PartialPatchKeepsOtherFields", func(t *testing.T) {
		uc, _ := newVaultFixture(t, testKey)
		notes := "initial notes"
		_, err := uc.Upsert(ctx, "Acme", &domain.UpdatePatch{
			Notes:       &notes,
			NetworkInfo: &domain.NetworkInfo{IPAddress: "10.1.0.0"},
		})
		require.NoError(t, err)

		owner := uuid.Must(uuid.NewV7())
		_, err = uc.Upsert(ctx, "Acme", &domain.UpdatePatch{OwnerPrincipalID: &owner})
		require.NoError(t, err)

		record, err := uc.Get(ctx, "Acme")
		require.NoError(t, err)
		assert.Equal(t, notes, record.Notes)
		assert.Equal(t, "10.1.0.0", record.NetworkInfo.IPAddress)
		require.NotNil(t, record.OwnerPrincipalID)
		assert.Equal(t, owner, *record.OwnerPrincipalID)
	})
}

func TestVaultUseCase_DiagramAndLayout(t *testing.T) {
	ctx := context.Background()
	uc, repo := newVaultFixture(t, testKey)

	_, err := uc.CreateOrganization(ctx, "Acme")
	require.NoError(t, err)

	blob := json.RawMessage(`{"nodes":[{"id":"fw-1","x":10,"y":20}]}`)
	require.NoError(t, uc.SetDiagram(ctx, "Acme", blob))
	require.NoError(t, uc.SetLayout(ctx, "Acme", json.RawMessage(`{"grid":true}`)))

	// Blobs are opaque visual state and stored as-is.
	assert.JSONEq(t, string(blob), string(repo.records["Acme"].DiagramData))

	record, err := uc.Get(ctx, "Acme")
	require.NoError(t, err)
	assert.JSONEq(t, `{"grid":true}`, string(record.LayoutData))

	t.Run("UnknownOrganization", func(t *testing.T) {
		err := uc.SetDiagram(ctx, "Missing", blob)
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})
}

func TestVaultUseCase_ConcurrentSubListMutations(t *testing.T) {
	ctx := context.Background()
	uc, _ := newVaultFixture(t, testKey)

	_, err := uc.CreateOrganization(ctx, "Acme")
	require.NoError(t, err)

	const writers = 16
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(n int) {
			defer wg.Done()
			_, err := uc.AddCredential(ctx, "Acme", domain.Credential{
				ServiceLabel: "svc-" + strings.Repeat("x", n+1),
				Username:     "user",
				Password:     "pass",
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	record, err := uc.Get(ctx, "Acme")
	require.NoError(t, err)
	// No acknowledged add may be lost.
	assert.Len(t, record.Credentials, writers)
}
