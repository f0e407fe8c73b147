package domain

import (
	"github.com/suportify/helpdesk/internal/errors"
)

// Vault-specific error definitions.
var (
	// ErrOrganizationNotFound indicates no vault exists for the organization name.
	ErrOrganizationNotFound = errors.Wrap(errors.ErrNotFound, "organization vault not found")

	// ErrOrganizationAlreadyExists indicates a vault already exists for the organization name.
	ErrOrganizationAlreadyExists = errors.Wrap(errors.ErrConflict, "organization vault already exists")

	// ErrCredentialNotFound indicates the credential id does not exist in the vault.
	ErrCredentialNotFound = errors.Wrap(errors.ErrNotFound, "credential not found")

	// ErrRemoteAccessNotFound indicates the remote-access id does not exist in the vault.
	ErrRemoteAccessNotFound = errors.Wrap(errors.ErrNotFound, "remote access entry not found")
)
