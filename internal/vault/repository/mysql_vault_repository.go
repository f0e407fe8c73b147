package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/suportify/helpdesk/internal/database"
	apperrors "github.com/suportify/helpdesk/internal/errors"
	"github.com/suportify/helpdesk/internal/vault/domain"
)

// MySQLVaultRepository handles vault persistence for MySQL.
type MySQLVaultRepository struct {
	db *sql.DB
}

// NewMySQLVaultRepository creates a new MySQLVaultRepository.
func NewMySQLVaultRepository(db *sql.DB) *MySQLVaultRepository {
	return &MySQLVaultRepository{db: db}
}

// Create inserts a new vault record. Sub-lists start empty.
func (r *MySQLVaultRepository) Create(ctx context.Context, record *domain.Record) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO vaults (id, organization_name, owner_principal_id, notes,
				  network_ip_address, network_subnet_mask, network_gateway,
				  diagram_data, layout_data, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.ID,
		record.OrganizationName,
		nullableUUID(record.OwnerPrincipalID),
		record.Notes,
		record.NetworkInfo.IPAddress,
		record.NetworkInfo.SubnetMask,
		record.NetworkInfo.Gateway,
		nullableBlob(record.DiagramData),
		nullableBlob(record.LayoutData),
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrOrganizationAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create vault")
	}
	return nil
}

// GetByOrganization retrieves a vault record with its sub-lists.
func (r *MySQLVaultRepository) GetByOrganization(
	ctx context.Context,
	organizationName string,
) (*domain.Record, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, organization_name, owner_principal_id, notes,
				  network_ip_address, network_subnet_mask, network_gateway,
				  diagram_data, layout_data, created_at, updated_at
			  FROM vaults WHERE organization_name = ?`

	record, err := scanVault(querier.QueryRowContext(ctx, query, organizationName))
	if err != nil {
		return nil, err
	}

	if record.Credentials, err = r.listCredentials(ctx, querier, record.ID); err != nil {
		return nil, err
	}
	if record.RemoteAccessEntries, err = r.listRemoteAccess(ctx, querier, record.ID); err != nil {
		return nil, err
	}
	return record, nil
}

// List retrieves vault records ordered by organization name. Sub-lists are
// not loaded; use GetByOrganization for the full record.
func (r *MySQLVaultRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.Record, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, organization_name, owner_principal_id, notes,
				  network_ip_address, network_subnet_mask, network_gateway,
				  diagram_data, layout_data, created_at, updated_at
			  FROM vaults ORDER BY organization_name LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list vaults")
	}
	defer rows.Close()

	var records []*domain.Record
	for rows.Next() {
		record, err := scanVaultRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list vaults")
	}
	return records, nil
}

// Update persists the scalar fields of an existing vault record.
func (r *MySQLVaultRepository) Update(ctx context.Context, record *domain.Record) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE vaults
			  SET owner_principal_id = ?, notes = ?, network_ip_address = ?,
				  network_subnet_mask = ?, network_gateway = ?, updated_at = NOW()
			  WHERE organization_name = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		nullableUUID(record.OwnerPrincipalID),
		record.Notes,
		record.NetworkInfo.IPAddress,
		record.NetworkInfo.SubnetMask,
		record.NetworkInfo.Gateway,
		record.OrganizationName,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update vault")
	}
	return requireRowAffected(result, domain.ErrOrganizationNotFound, "failed to update vault")
}

// AddCredential appends a credential entry as a single-row insert.
func (r *MySQLVaultRepository) AddCredential(
	ctx context.Context,
	organizationName string,
	credential *domain.Credential,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO vault_credentials (id, vault_id, service_label, username, password, created_at)
			  SELECT ?, id, ?, ?, ?, NOW() FROM vaults WHERE organization_name = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		credential.ID,
		credential.ServiceLabel,
		credential.Username,
		credential.Password,
		organizationName,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to add credential")
	}
	return requireRowAffected(result, domain.ErrOrganizationNotFound, "failed to add credential")
}

// RemoveCredential deletes a credential entry by id.
func (r *MySQLVaultRepository) RemoveCredential(
	ctx context.Context,
	organizationName string,
	credentialID uuid.UUID,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM vault_credentials
			  WHERE id = ? AND vault_id = (SELECT id FROM vaults WHERE organization_name = ?)`

	result, err := querier.ExecContext(ctx, query, credentialID, organizationName)
	if err != nil {
		return apperrors.Wrap(err, "failed to remove credential")
	}
	return requireRowAffected(result, domain.ErrCredentialNotFound, "failed to remove credential")
}

// AddRemoteAccess appends a remote-access entry as a single-row insert.
func (r *MySQLVaultRepository) AddRemoteAccess(
	ctx context.Context,
	organizationName string,
	entry *domain.RemoteAccessEntry,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO vault_remote_access (id, vault_id, title, access_type, identifier, password, notes, created_at)
			  SELECT ?, id, ?, ?, ?, ?, ?, NOW() FROM vaults WHERE organization_name = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.Title,
		entry.AccessType,
		entry.Identifier,
		entry.Password,
		entry.Notes,
		organizationName,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to add remote access entry")
	}
	return requireRowAffected(result, domain.ErrOrganizationNotFound, "failed to add remote access entry")
}

// RemoveRemoteAccess deletes a remote-access entry by id.
func (r *MySQLVaultRepository) RemoveRemoteAccess(
	ctx context.Context,
	organizationName string,
	entryID uuid.UUID,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM vault_remote_access
			  WHERE id = ? AND vault_id = (SELECT id FROM vaults WHERE organization_name = ?)`

	result, err := querier.ExecContext(ctx, query, entryID, organizationName)
	if err != nil {
		return apperrors.Wrap(err, "failed to remove remote access entry")
	}
	return requireRowAffected(result, domain.ErrRemoteAccessNotFound, "failed to remove remote access entry")
}

// SetDiagram stores the diagram blob.
func (r *MySQLVaultRepository) SetDiagram(
	ctx context.Context,
	organizationName string,
	blob []byte,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE vaults SET diagram_data = ?, updated_at = NOW() WHERE organization_name = ?`

	result, err := querier.ExecContext(ctx, query, nullableBlob(blob), organizationName)
	if err != nil {
		return apperrors.Wrap(err, "failed to set diagram")
	}
	return requireRowAffected(result, domain.ErrOrganizationNotFound, "failed to set diagram")
}

// SetLayout stores the layout blob.
func (r *MySQLVaultRepository) SetLayout(
	ctx context.Context,
	organizationName string,
	blob []byte,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE vaults SET layout_data = ?, updated_at = NOW() WHERE organization_name = ?`

	result, err := querier.ExecContext(ctx, query, nullableBlob(blob), organizationName)
	if err != nil {
		return apperrors.Wrap(err, "failed to set layout")
	}
	return requireRowAffected(result, domain.ErrOrganizationNotFound, "failed to set layout")
}

// listCredentials loads the credential sub-list in insertion order.
func (r *MySQLVaultRepository) listCredentials(
	ctx context.Context,
	querier database.Querier,
	vaultID uuid.UUID,
) ([]domain.Credential, error) {
	query := `SELECT id, service_label, username, password, created_at
			  FROM vault_credentials WHERE vault_id = ? ORDER BY created_at, id`

	rows, err := querier.QueryContext(ctx, query, vaultID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list credentials")
	}
	defer rows.Close()

	var credentials []domain.Credential
	for rows.Next() {
		var credential domain.Credential
		if err := rows.Scan(
			&credential.ID,
			&credential.ServiceLabel,
			&credential.Username,
			&credential.Password,
			&credential.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to list credentials")
		}
		credentials = append(credentials, credential)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list credentials")
	}
	return credentials, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation.
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}

// listRemoteAccess loads the remote-access sub-list in insertion order.
func (r *MySQLVaultRepository) listRemoteAccess(
	ctx context.Context,
	querier database.Querier,
	vaultID uuid.UUID,
) ([]domain.RemoteAccessEntry, error) {
	query := `SELECT id, title, access_type, identifier, password, notes, created_at
			  FROM vault_remote_access WHERE vault_id = ? ORDER BY created_at, id`

	rows, err := querier.QueryContext(ctx, query, vaultID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list remote access entries")
	}
	defer rows.Close()

	var entries []domain.RemoteAccessEntry
	for rows.Next() {
		var entry domain.RemoteAccessEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Title,
			&entry.AccessType,
			&entry.Identifier,
			&entry.Password,
			&entry.Notes,
			&entry.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to list remote access entries")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list remote access entries")
	}
	return entries, nil
}
