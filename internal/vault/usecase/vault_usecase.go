package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/suportify/helpdesk/internal/crypto"
	"github.com/suportify/helpdesk/internal/database"
	apperrors "github.com/suportify/helpdesk/internal/errors"
	"github.com/suportify/helpdesk/internal/vault/domain"
)

// vaultUseCase implements VaultUseCase.
//
// Encryption is an explicit codec at the persistence boundary: fields are
// encoded on every write and decoded on every read, so repositories and the
// database only ever hold envelopes while callers only ever see plaintext.
//
// Sub-list and scalar mutations on the same organization are serialized
// through a per-organization mutex so that no acknowledged add or remove is
// lost to a concurrent read-modify-write.
type vaultUseCase struct {
	txManager database.TxManager
	repo      VaultRepository
	cipher    *crypto.FieldCipher
	locks     keyedMutex
}

// NewVaultUseCase creates a vault use case instance.
func NewVaultUseCase(
	txManager database.TxManager,
	repo VaultRepository,
	cipher *crypto.FieldCipher,
) VaultUseCase {
	return &vaultUseCase{
		txManager: txManager,
		repo:      repo,
		cipher:    cipher,
	}
}

// CreateOrganization creates an empty vault for the organization name.
func (u *vaultUseCase) CreateOrganization(
	ctx context.Context,
	organizationName string,
) (*domain.Record, error) {
	organizationName = strings.TrimSpace(organizationName)
	if organizationName == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "organization name must not be blank")
	}

	record := &domain.Record{
		ID:               uuid.Must(uuid.NewV7()),
		OrganizationName: organizationName,
	}
	if err := u.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Get fetches the full decrypted vault record.
func (u *vaultUseCase) Get(ctx context.Context, organizationName string) (*domain.Record, error) {
	record, err := u.repo.GetByOrganization(ctx, strings.TrimSpace(organizationName))
	if err != nil {
		return nil, err
	}
	u.decodeRecord(record)
	return record, nil
}

// List fetches decrypted vault records without sub-lists.
func (u *vaultUseCase) List(ctx context.Context, offset, limit int) ([]*domain.Record, error) {
	records, err := u.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		u.decodeRecord(record)
	}
	return records, nil
}

// Upsert applies a scalar patch, creating the vault first if absent. The
// read-modify-write runs inside a transaction and under the organization
// lock.
func (u *vaultUseCase) Upsert(
	ctx context.Context,
	organizationName string,
	patch *domain.UpdatePatch,
) (*domain.Record, error) {
	organizationName = strings.TrimSpace(organizationName)
	if organizationName == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "organization name must not be blank")
	}

	unlock := u.locks.lock(organizationName)
	defer unlock()

	var result *domain.Record
	err := u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		record, err := u.repo.GetByOrganization(txCtx, organizationName)
		switch {
		case err == nil:
			u.decodeRecord(record)
		case apperrors.Is(err, apperrors.ErrNotFound):
			record = &domain.Record{
				ID:               uuid.Must(uuid.NewV7()),
				OrganizationName: organizationName,
			}
			encoded := u.encodeScalars(record)
			if err := u.repo.Create(txCtx, &encoded); err != nil {
				return err
			}
		default:
			return err
		}

		if patch != nil {
			if patch.OwnerPrincipalID != nil {
				record.OwnerPrincipalID = patch.OwnerPrincipalID
			}
			if patch.Notes != nil {
				record.Notes = *patch.Notes
			}
			if patch.NetworkInfo != nil {
				record.NetworkInfo = *patch.NetworkInfo
			}
		}

		if !patch.Empty() {
			encoded := u.encodeScalars(record)
			if err := u.repo.Update(txCtx, &encoded); err != nil {
				return err
			}
		}

		result = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AddCredential appends a credential entry and returns it with its new id.
func (u *vaultUseCase) AddCredential(
	ctx context.Context,
	organizationName string,
	entry domain.Credential,
) (*domain.Credential, error) {
	organizationName = strings.TrimSpace(organizationName)

	unlock := u.locks.lock(organizationName)
	defer unlock()

	entry.ID = uuid.Must(uuid.NewV7())

	encoded := entry
	encoded.Username = u.cipher.Encrypt(entry.Username)
	encoded.Password = u.cipher.Encrypt(entry.Password)

	if err := u.repo.AddCredential(ctx, organizationName, &encoded); err != nil {
		return nil, err
	}
	return &entry, nil
}

// RemoveCredential removes a credential entry by id.
func (u *vaultUseCase) RemoveCredential(
	ctx context.Context,
	organizationName string,
	credentialID uuid.UUID,
) error {
	organizationName = strings.TrimSpace(organizationName)

	unlock := u.locks.lock(organizationName)
	defer unlock()

	return u.repo.RemoveCredential(ctx, organizationName, credentialID)
}

// AddRemoteAccess appends a remote-access entry and returns it with its new id.
func (u *vaultUseCase) AddRemoteAccess(
	ctx context.Context,
	organizationName string,
	entry domain.RemoteAccessEntry,
) (*domain.RemoteAccessEntry, error) {
	organizationName = strings.TrimSpace(organizationName)

	unlock := u.locks.lock(organizationName)
	defer unlock()

	entry.ID = uuid.Must(uuid.NewV7())

	encoded := entry
	encoded.Identifier = u.cipher.Encrypt(entry.Identifier)
	encoded.Password = u.cipher.Encrypt(entry.Password)
	encoded.Notes = u.cipher.Encrypt(entry.Notes)

	if err := u.repo.AddRemoteAccess(ctx, organizationName, &encoded); err != nil {
		return nil, err
	}
	return &entry, nil
}

// RemoveRemoteAccess removes a remote-access entry by id.
func (u *vaultUseCase) RemoveRemoteAccess(
	ctx context.Context,
	organizationName string,
	entryID uuid.UUID,
) error {
	organizationName = strings.TrimSpace(organizationName)

	unlock := u.locks.lock(organizationName)
	defer unlock()

	return u.repo.RemoveRemoteAccess(ctx, organizationName, entryID)
}

// SetDiagram stores the opaque diagram blob. Diagram data is visual layout
// state, not secret, and is stored unencrypted.
func (u *vaultUseCase) SetDiagram(
	ctx context.Context,
	organizationName string,
	blob json.RawMessage,
) error {
	organizationName = strings.TrimSpace(organizationName)

	unlock := u.locks.lock(organizationName)
	defer unlock()

	return u.repo.SetDiagram(ctx, organizationName, blob)
}

// SetLayout stores the opaque layout blob.
func (u *vaultUseCase) SetLayout(
	ctx context.Context,
	organizationName string,
	blob json.RawMessage,
) error {
	organizationName = strings.TrimSpace(organizationName)

	unlock := u.locks.lock(organizationName)
	defer unlock()

	return u.repo.SetLayout(ctx, organizationName, blob)
}

// encodeScalars returns a copy of the record with the sensitive scalar
// fields encrypted for persistence. Sub-lists are persisted through their
// own operations and are not copied.
func (u *vaultUseCase) encodeScalars(record *domain.Record) domain.Record {
	encoded := *record
	encoded.Credentials = nil
	encoded.RemoteAccessEntries = nil
	encoded.Notes = u.cipher.Encrypt(record.Notes)
	encoded.NetworkInfo = domain.NetworkInfo{
		IPAddress:  u.cipher.Encrypt(record.NetworkInfo.IPAddress),
		SubnetMask: u.cipher.Encrypt(record.NetworkInfo.SubnetMask),
		Gateway:    u.cipher.Encrypt(record.NetworkInfo.Gateway),
	}
	return encoded
}

// decodeRecord decrypts the sensitive fields of a loaded record in place.
func (u *vaultUseCase) decodeRecord(record *domain.Record) {
	record.Notes = u.cipher.Decrypt(record.Notes)
	record.NetworkInfo.IPAddress = u.cipher.Decrypt(record.NetworkInfo.IPAddress)
	record.NetworkInfo.SubnetMask = u.cipher.Decrypt(record.NetworkInfo.SubnetMask)
	record.NetworkInfo.Gateway = u.cipher.Decrypt(record.NetworkInfo.Gateway)

	for i := range record.Credentials {
		record.Credentials[i].Username = u.cipher.Decrypt(record.Credentials[i].Username)
		record.Credentials[i].Password = u.cipher.Decrypt(record.Credentials[i].Password)
	}
	for i := range record.RemoteAccessEntries {
		entry := &record.RemoteAccessEntries[i]
		entry.Identifier = u.cipher.Decrypt(entry.Identifier)
		entry.Password = u.cipher.Decrypt(entry.Password)
		entry.Notes = u.cipher.Decrypt(entry.Notes)
	}
}

// keyedMutex serializes operations per organization name.
type keyedMutex struct {
	mutexes sync.Map // map[string]*sync.Mutex
}

// lock acquires the mutex for the key and returns its unlock function.
func (k *keyedMutex) lock(key string) func() {
	value, _ := k.mutexes.LoadOrStore(key, &sync.Mutex{})
	mutex := value.(*sync.Mutex)
	mutex.Lock()
	return mutex.Unlock
}
