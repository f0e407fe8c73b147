// Package authz implements the relationship-based authorization rule that
// lets one client principal view resources owned by another.
package authz

import (
	"github.com/suportify/helpdesk/internal/principal/domain"
)

// CanAccess decides whether principal may view a resource owned by owner.
//
// The rule is evaluated in order, first match wins:
//  1. self-access: same principal id.
//  2. affiliate access: principal is an organization lead and both belong
//     to the same, non-empty organization (exact string match; names are
//     normalized once when recorded).
//  3. otherwise deny.
//
// The check is evaluated per-resource at read time and never cached.
func CanAccess(principal, owner *domain.Client) bool {
	if principal == nil || owner == nil {
		return false
	}

	if principal.ID == owner.ID {
		return true
	}

	if principal.IsOrganizationLead &&
		owner.OrganizationName != "" &&
		principal.OrganizationName == owner.OrganizationName {
		return true
	}

	return false
}
