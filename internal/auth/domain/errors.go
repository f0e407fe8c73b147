package domain

import (
	"github.com/suportify/helpdesk/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrInvalidToken indicates the bearer token is malformed, expired or
	// carries a bad signature.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid token")

	// ErrPrincipalNotFound indicates a verified token whose subject exists
	// in neither realm.
	ErrPrincipalNotFound = errors.Wrap(errors.ErrUnauthorized, "principal not found")

	// ErrInvalidCredentials indicates a failed login. Unknown emails and
	// wrong passwords are deliberately indistinguishable.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrStaffInactive indicates a login attempt by a deactivated staff account.
	ErrStaffInactive = errors.Wrap(errors.ErrForbidden, "staff account is inactive")

	// ErrNetworkNotAdmitted indicates the request's source address is outside
	// the staff allow-list. The message intentionally carries no detail.
	ErrNetworkNotAdmitted = errors.Wrap(errors.ErrForbidden, "access denied")
)
