// Package repository provides data persistence for the two principal realms.
// The client realm and the staff realm are physically separate stores: each
// has its own table, its own email uniqueness constraint, and its own
// repository type. Both PostgreSQL and MySQL are supported.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/suportify/helpdesk/internal/database"
	apperrors "github.com/suportify/helpdesk/internal/errors"
	"github.com/suportify/helpdesk/internal/principal/domain"
)

// PostgreSQLClientRepository handles client-realm persistence for PostgreSQL.
type PostgreSQLClientRepository struct {
	db *sql.DB
}

// NewPostgreSQLClientRepository creates a new PostgreSQLClientRepository.
func NewPostgreSQLClientRepository(db *sql.DB) *PostgreSQLClientRepository {
	return &PostgreSQLClientRepository{db: db}
}

// Create inserts a new client principal.
func (r *PostgreSQLClientRepository) Create(ctx context.Context, client *domain.Client) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO clients (id, email, password, organization_name, is_organization_lead, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`

	_, err := querier.ExecContext(
		ctx,
		query,
		client.ID,
		client.Email,
		client.Password,
		client.OrganizationName,
		client.IsOrganizationLead,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create client")
	}
	return nil
}

// GetByID retrieves a client principal by id.
func (r *PostgreSQLClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, email, password, organization_name, is_organization_lead, created_at, updated_at
			  FROM clients WHERE id = $1`

	return scanClient(querier.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a client principal by email.
func (r *PostgreSQLClientRepository) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, email, password, organization_name, is_organization_lead, created_at, updated_at
			  FROM clients WHERE email = $1`

	return scanClient(querier.QueryRowContext(ctx, query, email))
}

// Update persists profile changes for an existing client principal.
func (r *PostgreSQLClientRepository) Update(ctx context.Context, client *domain.Client) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE clients
			  SET email = $1, password = $2, organization_name = $3, is_organization_lead = $4, updated_at = NOW()
			  WHERE id = $5`

	result, err := querier.ExecContext(
		ctx,
		query,
		client.Email,
		client.Password,
		client.OrganizationName,
		client.IsOrganizationLead,
		client.ID,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return apperrors.Wrap(err, "failed to update client")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to update client")
	}
	if rows == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

// scanClient scans a single client row.
func scanClient(row *sql.Row) (*domain.Client, error) {
	var client domain.Client
	err := row.Scan(
		&client.ID,
		&client.Email,
		&client.Password,
		&client.OrganizationName,
		&client.IsOrganizationLead,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get client")
	}
	return &client, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
