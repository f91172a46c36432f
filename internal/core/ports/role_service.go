package ports

import "context"

// AddRoleInput grants Role to UserID on behalf of CallerID.
type AddRoleInput struct {
	UserID   string
	CallerID string
	Role     string
}

// RoleService defines use-case operations for user roles.
type RoleService interface {
	AddRole(ctx context.Context, input AddRoleInput) (*RoleView, error)
	DeleteRole(ctx context.Context, roleID, callerID string) (*Ack, error)
}
