package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/suportify/helpdesk/internal/database"
	apperrors "github.com/suportify/helpdesk/internal/errors"
	"github.com/suportify/helpdesk/internal/principal/domain"
)

// PostgreSQLStaffRepository handles staff-realm persistence for PostgreSQL.
type PostgreSQLStaffRepository struct {
	db *sql.DB
}

// NewPostgreSQLStaffRepository creates a new PostgreSQLStaffRepository.
func NewPostgreSQLStaffRepository(db *sql.DB) *PostgreSQLStaffRepository {
	return &PostgreSQLStaffRepository{db: db}
}

// Create inserts a new staff principal.
func (r *PostgreSQLStaffRepository) Create(ctx context.Context, staff *domain.Staff) error {
	querier := database.GetTx(ctx, r.db)

	permissions, err := json.Marshal(staff.Permissions)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode staff permissions")
	}

	query := `INSERT INTO staff (id, email, password, role, permissions, active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`

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
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create staff")
	}
	return nil
}

// GetByID retrieves a staff principal by id.
func (r *PostgreSQLStaffRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, email, password, role, permissions, active, created_at, updated_at
			  FROM staff WHERE id = $1`

	return scanStaff(querier.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a staff principal by email.
func (r *PostgreSQLStaffRepository) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, email, password, role, permissions, active, created_at, updated_at
			  FROM staff WHERE email = $1`

	return scanStaff(querier.QueryRowContext(ctx, query, email))
}

// scanStaff scans a single staff row, decoding the permissions document.
func scanStaff(row *sql.Row) (*domain.Staff, error) {
	var staff domain.Staff
	var permissions []byte

	err := row.Scan(
		&staff.ID,
		&staff.Email,
		&staff.Password,
		&staff.Role,
		&permissions,
		&staff.Active,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStaffNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get staff")
	}

	if len(permissions) > 0 {
		if err := json.Unmarshal(permissions, &staff.Permissions); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode staff permissions")
		}
	}
	return &staff, nil
}
