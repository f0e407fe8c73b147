package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/suportify/helpdesk/internal/database"
	apperrors "github.com/suportify/helpdesk/internal/errors"
	"github.com/suportify/helpdesk/internal/principal/domain"
)

// MySQLClientRepository handles client-realm persistence for MySQL.
type MySQLClientRepository struct {
	db *sql.DB
}

// NewMySQLClientRepository creates a new MySQLClientRepository.
func NewMySQLClientRepository(db *sql.DB) *MySQLClientRepository {
	return &MySQLClientRepository{db: db}
}

// Create inserts a new client principal.
func (r *MySQLClientRepository) Create(ctx context.Context, client *domain.Client) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO clients (id, email, password, organization_name, is_organization_lead, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, NOW(), NOW())`

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
		if isMySQLUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create client")
	}
	return nil
}

// GetByID retrieves a client principal by id.
func (r *MySQLClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, email, password, organization_name, is_organization_lead, created_at, updated_at
			  FROM clients WHERE id = ?`

	return scanClient(querier.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a client principal by email.
func (r *MySQLClientRepository) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, email, password, organization_name, is_organization_lead, created_at, updated_at
			  FROM clients WHERE email = ?`

	return scanClient(querier.QueryRowContext(ctx, query, email))
}

// Update persists profile changes for an existing client principal.
func (r *MySQLClientRepository) Update(ctx context.Context, client *domain.Client) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE clients
			  SET email = ?, password = ?, organization_name = ?, is_organization_lead = ?, updated_at = NOW()
			  WHERE id = ?`

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
		if isMySQLUniqueViolation(err) {
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

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation.
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}
