// Package repository provides vault persistence. One row in vaults holds the
// per-organization scalar fields; credentials and remote-access entries live
// in child tables so that sub-list add/remove are single-row statements
// rather than whole-document rewrites. Both PostgreSQL and MySQL are
// supported.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/suportify/helpdesk/internal/database"
	apperrors "github.com/suportify/helpdesk/internal/errors"
	"github.com/suportify/helpdesk/internal/vault/domain"
)

// PostgreSQLVaultRepository handles vault persistence for PostgreSQL.
type PostgreSQLVaultRepository struct {
	db *sql.DB
}

// NewPostgreSQLVaultRepository creates a new PostgreSQLVaultRepository.
func NewPostgreSQLVaultRepository(db *sql.DB) *PostgreSQLVaultRepository {
	return &PostgreSQLVaultRepository{db: db}
}

// Create inserts a new vault record. Sub-lists start empty.
func (r *PostgreSQLVaultRepository) Create(ctx context.Context, record *domain.Record) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO vaults (id, organization_name, owner_principal_id, notes,
				  network_ip_address, network_subnet_mask, network_gateway,
				  diagram_data, layout_data, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`

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
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrOrganizationAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create vault")
	}
	return nil
}

// GetByOrganization retrieves a vault record with its sub-lists.
func (r *PostgreSQLVaultRepository) GetByOrganization(
	ctx context.Context,
	organizationName string,
) (*domain.Record, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, organization_name, owner_principal_id, notes,
				  network_ip_address, network_subnet_mask, network_gateway,
				  diagram_data, layout_data, created_at, updated_at
			  FROM vaults WHERE organization_name = $1`

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
func (r *PostgreSQLVaultRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.Record, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, organization_name, owner_principal_id, notes,
				  network_ip_address, network_subnet_mask, network_gateway,
				  diagram_data, layout_data, created_at, updated_at
			  FROM vaults ORDER BY organization_name OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
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
func (r *PostgreSQLVaultRepository) Update(ctx context.Context, record *domain.Record) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE vaults
			  SET owner_principal_id = $1, notes = $2, network_ip_address = $3,
				  network_subnet_mask = $4, network_gateway = $5, updated_at = NOW()
			  WHERE organization_name = $6`

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
func (r *PostgreSQLVaultRepository) AddCredential(
	ctx context.Context,
	organizationName string,
	credential *domain.Credential,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO vault_credentials (id, vault_id, service_label, username, password, created_at)
			  SELECT $1, id, $2, $3, $4, NOW() FROM vaults WHERE organization_name = $5`

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
func (r *PostgreSQLVaultRepository) RemoveCredential(
	ctx context.Context,
	organizationName string,
	credentialID uuid.UUID,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM vault_credentials
			  WHERE id = $1 AND vault_id = (SELECT id FROM vaults WHERE organization_name = $2)`

	result, err := querier.ExecContext(ctx, query, credentialID, organizationName)
	if err != nil {
		return apperrors.Wrap(err, "failed to remove credential")
	}
	return requireRowAffected(result, domain.ErrCredentialNotFound, "failed to remove credential")
}

// AddRemoteAccess appends a remote-access entry as a single-row insert.
func (r *PostgreSQLVaultRepository) AddRemoteAccess(
	ctx context.Context,
	organizationName string,
	entry *domain.RemoteAccessEntry,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO vault_remote_access (id, vault_id, title, access_type, identifier, password, notes, created_at)
			  SELECT $1, id, $2, $3, $4, $5, $6, NOW() FROM vaults WHERE organization_name = $7`

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
func (r *PostgreSQLVaultRepository) RemoveRemoteAccess(
	ctx context.Context,
	organizationName string,
	entryID uuid.UUID,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM vault_remote_access
			  WHERE id = $1 AND vault_id = (SELECT id FROM vaults WHERE organization_name = $2)`

	result, err := querier.ExecContext(ctx, query, entryID, organizationName)
	if err != nil {
		return apperrors.Wrap(err, "failed to remove remote access entry")
	}
	return requireRowAffected(result, domain.ErrRemoteAccessNotFound, "failed to remove remote access entry")
}

// SetDiagram stores the diagram blob.
func (r *PostgreSQLVaultRepository) SetDiagram(
	ctx context.Context,
	organizationName string,
	blob []byte,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE vaults SET diagram_data = $1, updated_at = NOW() WHERE organization_name = $2`

	result, err := querier.ExecContext(ctx, query, nullableBlob(blob), organizationName)
	if err != nil {
		return apperrors.Wrap(err, "failed to set diagram")
	}
	return requireRowAffected(result, domain.ErrOrganizationNotFound, "failed to set diagram")
}

// SetLayout stores the layout blob.
func (r *PostgreSQLVaultRepository) SetLayout(
	ctx context.Context,
	organizationName string,
	blob []byte,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE vaults SET layout_data = $1, updated_at = NOW() WHERE organization_name = $2`

	result, err := querier.ExecContext(ctx, query, nullableBlob(blob), organizationName)
	if err != nil {
		return apperrors.Wrap(err, "failed to set layout")
	}
	return requireRowAffected(result, domain.ErrOrganizationNotFound, "failed to set layout")
}

// listCredentials loads the credential sub-list in insertion order.
func (r *PostgreSQLVaultRepository) listCredentials(
	ctx context.Context,
	querier database.Querier,
	vaultID uuid.UUID,
) ([]domain.Credential, error) {
	query := `SELECT id, service_label, username, password, created_at
			  FROM vault_credentials WHERE vault_id = $1 ORDER BY created_at, id`

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

// listRemoteAccess loads the remote-access sub-list in insertion order.
func (r *PostgreSQLVaultRepository) listRemoteAccess(
	ctx context.Context,
	querier database.Querier,
	vaultID uuid.UUID,
) ([]domain.RemoteAccessEntry, error) {
	query := `SELECT id, title, access_type, identifier, password, notes, created_at
			  FROM vault_remote_access WHERE vault_id = $1 ORDER BY created_at, id`

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

// vaultScanner abstracts sql.Row and sql.Rows for shared scan logic.
type vaultScanner interface {
	Scan(dest ...any) error
}

// scanVault scans a single vault row, mapping sql.ErrNoRows to not found.
func scanVault(row *sql.Row) (*domain.Record, error) {
	record, err := scanVaultFrom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get vault")
	}
	return record, nil
}

// scanVaultRow scans one row of a multi-row result.
func scanVaultRow(rows *sql.Rows) (*domain.Record, error) {
	record, err := scanVaultFrom(rows)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to scan vault")
	}
	return record, nil
}

func scanVaultFrom(scanner vaultScanner) (*domain.Record, error) {
	var record domain.Record
	var owner uuid.NullUUID
	var diagram, layout []byte

	err := scanner.Scan(
		&record.ID,
		&record.OrganizationName,
		&owner,
		&record.Notes,
		&record.NetworkInfo.IPAddress,
		&record.NetworkInfo.SubnetMask,
		&record.NetworkInfo.Gateway,
		&diagram,
		&layout,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if owner.Valid {
		id := owner.UUID
		record.OwnerPrincipalID = &id
	}
	record.DiagramData = diagram
	record.LayoutData = layout
	return &record, nil
}

// requireRowAffected maps a zero-row result to the given not-found error.
func requireRowAffected(result sql.Result, notFound error, wrapMsg string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, wrapMsg)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

// nullableUUID converts an optional uuid to a driver-friendly value.
func nullableUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

// nullableBlob converts an empty blob to NULL.
func nullableBlob(blob []byte) any {
	if len(blob) == 0 {
		return nil
	}
	return blob
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
