package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/suportify/helpdesk/internal/database"
	apperrors "github.com/suportify/helpdesk/internal/errors"
	"github.com/suportify/helpdesk/internal/principal/domain"
)

// MySQLStaffRepository handles staff-realm persistence for MySQL.
type MySQLStaffRepository struct {
	db *sql.DB
}

// NewMySQLStaffRepository creates a new MySQLStaffRepository.
func NewMySQLStaffRepository(db *sql.DB) *MySQLStaffRepository {
	return &MySQLStaffRepository{db: db}
}

// Create inserts a new staff principal.
func (r *MySQLStaffRepository) Create(ctx context.Context, staff *domain.Staff) error {
	querier := database.GetTx(ctx, r.db)

	permissions, err := json.Marshal(staff.Permissions)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode staff permissions")
	}

	query := `INSERT INTO staff (id, email, password, role, permissions, active, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())`

	_, err = querier.ExecContext(
		ctx,
		query,
		staff.ID,
		staff.Email,
		staff.Password,
		staff.Role,
		permissions,
		staff.Active,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create staff")
	}
	return nil
}

// GetByID retrieves a staff principal by id.
func (r *MySQLStaffRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, email, password, role, permissions, active, created_at, updated_at
			  FROM staff WHERE id = ?`

	return scanStaff(querier.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a staff principal by email.
func (r *MySQLStaffRepository) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, email, password, role, permissions, active, created_at, updated_at
			  FROM staff WHERE email = ?`

	return scanStaff(querier.QueryRowContext(ctx, query, email))
}
