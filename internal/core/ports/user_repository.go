package ports

import (
	"context"

	"github.com/userhub/users-service/internal/core/domain"
)

// UserRepository defines persistence operations for user aggregates.
// Lookups return domain.ErrUserNotFound when nothing matches.
type UserRepository interface {
	// Create persists the user together with its roles in a single transaction.
	// A violated email uniqueness constraint yields domain.ErrDuplicateEmail.
	Create(ctx context.Context, user *domain.User) error
	// Update persists name, email, password hash and last-updated only; roles are untouched.
	Update(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns one page (1-based) of users.
	List(ctx context.Context, page, limit int) ([]*domain.User, error)
	// Search returns one page of users whose name or email contains term, case-insensitively.
	Search(ctx context.Context, term string, page, limit int) ([]*domain.User, error)
	// Delete removes the user and all of its roles in a single transaction.
	Delete(ctx context.Context, user *domain.User) error
}

// RoleRepository defines persistence operations for user role records.
// Lookups return domain.ErrRoleNotFound when nothing matches.
type RoleRepository interface {
	// Create persists a role. A violated (user, role) uniqueness constraint
	// yields domain.ErrDuplicateRole.
	Create(ctx context.Context, role *domain.UserRole) error
	FindByID(ctx context.Context, id string) (*domain.UserRole, error)
	FindByUserAndRole(ctx context.Context, userID string, role domain.Role) (*domain.UserRole, error)
	Delete(ctx context.Context, role *domain.UserRole) error
}

// Hasher is a one-way password digest.
type Hasher interface {
	Hash(plaintext string) (string, error)
}
