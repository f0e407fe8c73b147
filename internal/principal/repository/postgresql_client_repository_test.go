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
	"github.com/suportify/helpdesk/internal/principal/domain"
)

func newMockDB(t *testing.T) (*PostgreSQLClientRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgreSQLClientRepository(db), mock
}

func clientColumns() []string {
	return []string{
		"id", "email", "password", "organization_name", "is_organization_lead", "created_at", "updated_at",
	}
}

func TestPostgreSQLClientRepository_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockDB(t)
		client := &domain.Client{
			ID:                 uuid.Must(uuid.NewV7()),
			Email:              "lead@acme.example",
			Password:           "argon2id-hash",
			OrganizationName:   "Acme",
			IsOrganizationLead: true,
		}

		mock.ExpectExec("INSERT INTO clients").
			WithArgs(client.ID, client.Email, client.Password, client.OrganizationName, client.IsOrganizationLead).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(context.Background(), client)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		repo, mock := newMockDB(t)
		client := &domain.Client{ID: uuid.Must(uuid.NewV7()), Email: "dup@acme.example"}

		mock.ExpectExec("INSERT INTO clients").
			WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "clients_email_key"`))

		err := repo.Create(context.Background(), client)
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
		assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	})
}

func TestPostgreSQLClientRepository_GetByID(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		repo, mock := newMockDB(t)
		id := uuid.Must(uuid.NewV7())
		now := time.Now().UTC()

		mock.ExpectQuery("SELECT (.+) FROM clients WHERE id").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(clientColumns()).
				AddRow(id, "a@acme.example", "hash", "Acme", false, now, now))

		client, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, client.ID)
		assert.Equal(t, "Acme", client.OrganizationName)
		assert.False(t, client.IsOrganizationLead)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mock := newMockDB(t)
		id := uuid.Must(uuid.NewV7())

		mock.ExpectQuery("SELECT (.+) FROM clients WHERE id").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(clientColumns()))

		_, err := repo.GetByID(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrClientNotFound)
	})
}

func TestPostgreSQLClientRepository_GetByEmail(t *testing.T) {
	repo, mock := newMockDB(t)
	id := uuid.Must(uuid.NewV7())
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM clients WHERE email").
		WithArgs("lead@acme.example").
		WillReturnRows(sqlmock.NewRows(clientColumns()).
			AddRow(id, "lead@acme.example", "hash", "Acme", true, now, now))

	client, err := repo.GetByEmail(context.Background(), "lead@acme.example")
	require.NoError(t, err)
	assert.True(t, client.IsOrganizationLead)
}

func TestPostgreSQLClientRepository_Update(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockDB(t)
		client := &domain.Client{
			ID:               uuid.Must(uuid.NewV7()),
			Email:            "lead@acme.example",
			Password:         "hash",
			OrganizationName: "Acme",
		}

		mock.ExpectExec("UPDATE clients").
			WithArgs(client.Email, client.Password, client.OrganizationName, client.IsOrganizationLead, client.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(context.Background(), client))
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mock := newMockDB(t)
		client := &domain.Client{ID: uuid.Must(uuid.NewV7())}

		mock.ExpectExec("UPDATE clients").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), client)
		assert.ErrorIs(t, err, domain.ErrClientNotFound)
	})
}
