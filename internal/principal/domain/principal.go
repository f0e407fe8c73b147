// Package domain defines the principal entities for the two identity realms.
//
// The client realm and the staff realm are disjoint populations with
// independent identity spaces: the same email may exist once in each realm,
// ids are never shared, and a principal's realm is fixed at creation.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Realm identifies which principal population an identity belongs to.
type Realm string

const (
	// RealmClient is the ordinary customer-facing realm.
	RealmClient Realm = "client"
	// RealmStaff is the privileged support-staff realm.
	RealmStaff Realm = "staff"
)

// Other returns the opposite realm, used for cross-realm fallback lookups.
func (r Realm) Other() Realm {
	if r == RealmStaff {
		return RealmClient
	}
	return RealmStaff
}

// Client is a principal in the client realm.
type Client struct {
	ID    uuid.UUID
	Email string
	// Password holds the Argon2id hash, never the plain password.
	Password         string
	OrganizationName string
	// IsOrganizationLead marks a client allowed to view resources owned by
	// other clients of the same organization.
	IsOrganizationLead bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Role is the staff access level.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTechnician Role = "technician"
)

// Staff is a principal in the staff realm.
type Staff struct {
	ID    uuid.UUID
	Email string
	// Password holds the Argon2id hash, never the plain password.
	Password    string
	Role        Role
	Permissions []string
	// Active gates login; inactive staff keep their record but cannot
	// authenticate.
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPermission reports whether the staff member carries the named
// permission. Admins implicitly hold every permission.
func (s *Staff) HasPermission(permission string) bool {
	if s.Role == RoleAdmin {
		return true
	}
	for _, p := range s.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// Principal is a resolved identity from either realm. Exactly one of Client
// or Staff is set, matching Realm; the two records are never merged.
type Principal struct {
	Realm  Realm
	Client *Client
	Staff  *Staff
}

// ID returns the subject id of the resolved principal.
func (p Principal) ID() uuid.UUID {
	if p.Realm == RealmStaff && p.Staff != nil {
		return p.Staff.ID
	}
	if p.Client != nil {
		return p.Client.ID
	}
	return uuid.Nil
}

// Email returns the email of the resolved principal.
func (p Principal) Email() string {
	if p.Realm == RealmStaff && p.Staff != nil {
		return p.Staff.Email
	}
	if p.Client != nil {
		return p.Client.Email
	}
	return ""
}
