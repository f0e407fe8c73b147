package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	principalDomain "github.com/suportify/helpdesk/internal/principal/domain"
)

// stubPrincipalUseCase records mutating calls and returns canned principals.
type stubPrincipalUseCase struct {
	createdRole        principalDomain.Role
	createdPermissions []string
	createErr          error

	setLeadID  uuid.UUID
	setLead    bool
	setLeadErr error
}

func (s *stubPrincipalUseCase) RegisterClient(
	_ context.Context,
	_, _, _ string,
) (*principalDomain.Client, error) {
	panic("not used in command tests")
}

func (s *stubPrincipalUseCase) CreateStaff(
	_ context.Context,
	email, _ string,
	role principalDomain.Role,
	permissions []string,
	active bool,
) (*principalDomain.Staff, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.createdRole = role
	s.createdPermissions = permissions
	return &principalDomain.Staff{
		ID:     uuid.Must(uuid.NewV7()),
		Email:  email,
		Role:   role,
		Active: active,
	}, nil
}

func (s *stubPrincipalUseCase) GetClient(
	_ context.Context,
	_ uuid.UUID,
) (*principalDomain.Client, error) {
	panic("not used in command tests")
}

func (s *stubPrincipalUseCase) SetOrganizationLead(
	_ context.Context,
	id uuid.UUID,
	lead bool,
) (*principalDomain.Client, error) {
	if s.setLeadErr != nil {
		return nil, s.setLeadErr
	}
	s.setLeadID = id
	s.setLead = lead
	return &principalDomain.Client{
		ID:                 id,
		Email:              "member@acme.example",
		OrganizationName:   "Acme",
		IsOrganizationLead: lead,
	}, nil
}

func TestRunCreateStaff(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("text output", func(t *testing.T) {
		useCase := &stubPrincipalUseCase{}
		var out bytes.Buffer

		err := RunCreateStaff(
			ctx,
			useCase,
			logger,
			"tech@support.example",
			"Sup0rtify",
			"technician",
			"vault:read,vault:write",
			true,
			"text",
			IOTuple{Writer: &out},
		)

		require.NoError(t, err)
		assert.Contains(t, out.String(), "tech@support.example")
		assert.Contains(t, out.String(), "technician")
		assert.Equal(t, principalDomain.RoleTechnician, useCase.createdRole)
		assert.Equal(t, []string{"vault:read", "vault:write"}, useCase.createdPermissions)
	})

	t.Run("json output", func(t *testing.T) {
		useCase := &stubPrincipalUseCase{}
		var out bytes.Buffer

		err := RunCreateStaff(
			ctx,
			useCase,
			logger,
			"lead@support.example",
			"Sup0rtify",
			"admin",
			"",
			true,
			"json",
			IOTuple{Writer: &out},
		)

		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		assert.Equal(t, "lead@support.example", result["email"])
		assert.Equal(t, "admin", result["role"])
		assert.Equal(t, true, result["active"])
		assert.Nil(t, useCase.createdPermissions)
	})

	t.Run("invalid role", func(t *testing.T) {
		useCase := &stubPrincipalUseCase{}
		var out bytes.Buffer

		err := RunCreateStaff(
			ctx,
			useCase,
			logger,
			"tech@support.example",
			"Sup0rtify",
			"superuser",
			"",
			true,
			"text",
			IOTuple{Writer: &out},
		)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid role")
	})
}

func TestParsePermissions(t *testing.T) {
	assert.Nil(t, parsePermissions(""))
	assert.Nil(t, parsePermissions(" , "))
	assert.Equal(t, []string{"a", "b"}, parsePermissions(" a , b "))
}
