package domain

import "time"

// Role is a named permission grant from the closed role catalog.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleOwner    Role = "OWNER"
)

// DefaultRole is assigned when a user is created without an explicit role.
const DefaultRole = RoleCustomer

// catalog preserves declaration order for display.
var catalog = []Role{RoleCustomer, RoleOwner}

var roleByName = func() map[string]Role {
	m := make(map[string]Role, len(catalog))
	for _, r := range catalog {
		m[string(r)] = r
	}
	return m
}()

// ValidRoles returns a copy of the role catalog.
func ValidRoles() []Role {
	out := make([]Role, len(catalog))
	copy(out, catalog)
	return out
}

// NormalizeRole resolves an optional role name against the catalog.
// A nil name yields DefaultRole. Matching is case-sensitive.
func NormalizeRole(name *string) (Role, error) {
	if name == nil {
		return DefaultRole, nil
	}
	r, ok := roleByName[*name]
	if !ok {
		return "", &InvalidRoleError{Value: *name, Valid: ValidRoles()}
	}
	return r, nil
}

// UserRole is a role record owned by a single user.
type UserRole struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
