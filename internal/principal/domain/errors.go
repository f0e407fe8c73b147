package domain

import (
	"github.com/suportify/helpdesk/internal/errors"
)

// Domain-specific errors for principal operations.
var (
	// ErrClientNotFound indicates the requested client principal does not exist.
	ErrClientNotFound = errors.Wrap(errors.ErrNotFound, "client not found")

	// ErrStaffNotFound indicates the requested staff principal does not exist.
	ErrStaffNotFound = errors.Wrap(errors.ErrNotFound, "staff not found")

	// ErrEmailAlreadyExists indicates the email is already registered in the realm.
	ErrEmailAlreadyExists = errors.Wrap(errors.ErrConflict, "email already registered")

	// ErrInvalidRealm indicates an unknown realm value.
	ErrInvalidRealm = errors.Wrap(errors.ErrInvalidInput, "invalid realm")
)
