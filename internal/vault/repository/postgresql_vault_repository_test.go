package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/suportify/helpdesk/internal/errors"
	"github.com/suportify/helpdesk/internal/vault/domain"
)

func newMockDB(t *testing.T) (*PostgreSQLVaultRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgreSQLVaultRepository(db), mock
}

func vaultColumns() []string {
	return []string{
		"id", "organization_name", "owner_principal_id", "notes",
		"network_ip_address", "network_subnet_mask", "network_gateway",
		"diagram_data", "layout_data", "created_at", "updated_at",
	}
}

func credentialColumns() []string {
	return []string{"id", "service_label", "username", "password", "created_at"}
}

func remoteAccessColumns() []string {
	return []string{"id", "title", "access_type", "identifier", "password", "notes", "created_at"}
}

func TestPostgreSQLVaultRepository_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockDB(t)
		record := &domain.Record{
			ID:               uuid.Must(uuid.NewV7()),
			OrganizationName: "Acme",
		}

		mock.ExpectExec("INSERT INTO vaults").
			WithArgs(
				record.ID, record.OrganizationName, uuid.NullUUID{}, "",
				"", "", "", nil, nil,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(context.Background(), record)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateOrganization", func(t *testing.T) {
		repo, mock := newMockDB(t)
		record := &domain.Record{ID: uuid.Must(uuid.NewV7()), OrganizationName: "Acme"}

		mock.ExpectExec("INSERT INTO vaults").
			WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "vaults_organization_name_key"`))

		err := repo.Create(context.Background(), record)
		assert.ErrorIs(t, err, domain.ErrOrganizationAlreadyExists)
		assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	})
}

func TestPostgreSQLVaultRepository_GetByOrganization(t *testing.T) {
	t.Run("FoundWithSubLists", func(t *testing.T) {
		repo, mock := newMockDB(t)
		vaultID := uuid.Must(uuid.NewV7())
		ownerID := uuid.Must(uuid.NewV7())
		credentialID := uuid.Must(uuid.NewV7())
		remoteID := uuid.Must(uuid.NewV7())
		now := time.Now().UTC()

		mock.ExpectQuery("SELECT (.+) FROM vaults WHERE organization_name").
			WithArgs("Acme").
			WillReturnRows(sqlmock.NewRows(vaultColumns()).
				AddRow(
					vaultID, "Acme", uuid.NullUUID{UUID: ownerID, Valid: true}, "enc-notes",
					"enc-ip", "enc-mask", "enc-gw",
					[]byte(`{"nodes":[]}`), nil, now, now,
				))

		mock.ExpectQuery("SELECT (.+) FROM vault_credentials WHERE vault_id").
			WithArgs(vaultID).
			WillReturnRows(sqlmock.NewRows(credentialColumns()).
				AddRow(credentialID, "Mail server", "enc-user", "enc-pass", now))

		mock.ExpectQuery("SELECT (.+) FROM vault_remote_access WHERE vault_id").
			WithArgs(vaultID).
			WillReturnRows(sqlmock.NewRows(remoteAccessColumns()).
				AddRow(remoteID, "Office VPN", "vpn", "enc-ident", "enc-pass", "", now))

		record, err := repo.GetByOrganization(context.Background(), "Acme")
		require.NoError(t, err)
		assert.Equal(t, vaultID, record.ID)
		require.NotNil(t, record.OwnerPrincipalID)
		assert.Equal(t, ownerID, *record.OwnerPrincipalID)
		require.Len(t, record.Credentials, 1)
		assert.Equal(t, credentialID, record.Credentials[0].ID)
		require.Len(t, record.RemoteAccessEntries, 1)
		assert.Equal(t, "Office VPN", record.RemoteAccessEntries[0].Title)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectQuery("SELECT (.+) FROM vaults WHERE organization_name").
			WithArgs("Missing").
			WillReturnRows(sqlmock.NewRows(vaultColumns()))

		_, err := repo.GetByOrganization(context.Background(), "Missing")
		assert.ErrorIs(t, err, domain.ErrOrganizationNotFound)
	})
}

func TestPostgreSQLVaultRepository_AddCredential(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockDB(t)
		credential := &domain.Credential{
			ID:           uuid.Must(uuid.NewV7()),
			ServiceLabel: "Mail server",
			Username:     "enc-user",
			Password:     "enc-pass",
		}

		mock.ExpectExec("INSERT INTO vault_credentials").
			WithArgs(credential.ID, credential.ServiceLabel, credential.Username, credential.Password, "Acme").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.AddCredential(context.Background(), "Acme", credential)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownOrganization", func(t *testing.T) {
		repo, mock := newMockDB(t)
		credential := &domain.Credential{ID: uuid.Must(uuid.NewV7())}

		mock.ExpectExec("INSERT INTO vault_credentials").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.AddCredential(context.Background(), "Missing", credential)
		assert.ErrorIs(t, err, domain.ErrOrganizationNotFound)
	})
}

func TestPostgreSQLVaultRepository_RemoveCredential(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockDB(t)
		credentialID := uuid.Must(uuid.NewV7())

		mock.ExpectExec("DELETE FROM vault_credentials").
			WithArgs(credentialID, "Acme").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.RemoveCredential(context.Background(), "Acme", credentialID)
		assert.NoError(t, err)
	})

	t.Run("UnknownID", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectExec("DELETE FROM vault_credentials").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.RemoveCredential(context.Background(), "Acme", uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, domain.ErrCredentialNotFound)
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})
}

func TestPostgreSQLVaultRepository_RemoveRemoteAccess(t *testing.T) {
	t.Run("UnknownID", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectExec("DELETE FROM vault_remote_access").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.RemoveRemoteAccess(context.Background(), "Acme", uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, domain.ErrRemoteAccessNotFound)
	})
}

func TestPostgreSQLVaultRepository_SetDiagram(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockDB(t)
		blob := []byte(`{"nodes":[{"id":"fw-1"}]}`)

		mock.ExpectExec("UPDATE vaults SET diagram_data").
			WithArgs(blob, "Acme").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SetDiagram(context.Background(), "Acme", blob)
		assert.NoError(t, err)
	})

	t.Run("EmptyBlobStoredAsNull", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectExec("UPDATE vaults SET diagram_data").
			WithArgs(nil, "Acme").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SetDiagram(context.Background(), "Acme", nil)
		assert.NoError(t, err)
	})

	t.Run("UnknownOrganization", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectExec("UPDATE vaults SET diagram_data").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetDiagram(context.Background(), "Missing", []byte(`{}`))
		assert.ErrorIs(t, err, domain.ErrOrganizationNotFound)
	})
}

func TestPostgreSQLVaultRepository_Update(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockDB(t)
		ownerID := uuid.Must(uuid.NewV7())
		record := &domain.Record{
			OrganizationName: "Acme",
			OwnerPrincipalID: &ownerID,
			Notes:            "enc-notes",
			NetworkInfo: domain.NetworkInfo{
				IPAddress:  "enc-ip",
				SubnetMask: "enc-mask",
				Gateway:    "enc-gw",
			},
		}

		mock.ExpectExec("UPDATE vaults").
			WithArgs(
				uuid.NullUUID{UUID: ownerID, Valid: true}, "enc-notes",
				"enc-ip", "enc-mask", "enc-gw", "Acme",
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(context.Background(), record)
		assert.NoError(t, err)
	})

	t.Run("UnknownOrganization", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectExec("UPDATE vaults").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), &domain.Record{OrganizationName: "Missing"})
		assert.ErrorIs(t, err, domain.ErrOrganizationNotFound)
	})
}
