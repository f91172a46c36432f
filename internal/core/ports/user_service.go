package ports

import (
	"context"
	"time"
)

// CreateUserInput carries the data needed to register a user.
// A nil Role means the default role.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     *string
}

// ListUsersInput carries pagination and the optional search term.
// Zero Page or Limit take the defaults.
type ListUsersInput struct {
	Page  int
	Limit int
	Query string
}

// UpdateUserInput is a partial update of the user identified by ID, issued by CallerID.
type UpdateUserInput struct {
	ID       string
	CallerID string
	Name     Patch[string]
	Email    Patch[string]
	Password Patch[string]
}

// RoleView is the outward projection of a role record.
type RoleView struct {
	ID        string
	Role      string
	CreatedAt time.Time
}

// UserView is the outward projection of a user; it never carries the password hash.
type UserView struct {
	ID          string
	Name        string
	Email       string
	Roles       []RoleView
	CreatedAt   time.Time
	LastUpdated time.Time
}

// UserAuthView includes the password hash and is meant for an internal
// authentication collaborator only.
type UserAuthView struct {
	ID           string
	Email        string
	PasswordHash string
	Roles        []RoleView
}

// Ack acknowledges a completed mutation.
type Ack struct {
	OK bool
}

// UserService defines use-case operations for users.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*UserView, error)
	FindAll(ctx context.Context, input ListUsersInput) ([]UserView, error)
	FindByID(ctx context.Context, id string) (*UserView, error)
	FindByEmailForAuth(ctx context.Context, email string) (*UserAuthView, error)
	Update(ctx context.Context, input UpdateUserInput) (*UserView, error)
	Delete(ctx context.Context, id, callerID string) (*Ack, error)
}
