package handler

import (
	"time"

	"github.com/userhub/users-service/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error      string   `json:"error"`
	ValidRoles []string `json:"valid_roles,omitempty"`
}

// --- Request types ---

type createUserRequest struct {
	Name     string  `json:"name"     validate:"max=200"`
	Email    string  `json:"email"    validate:"required,email"`
	Password string  `json:"password" validate:"required,password"`
	Role     *string `json:"role"`
}

type listUsersQuery struct {
	Page  int    `query:"page"  validate:"omitempty,gt=0,lte=100000"`
	Limit int    `query:"limit" validate:"omitempty,gt=0"`
	Q     string `query:"q"`
}

// updateUserRequest fields are tri-state: absent and null leave the stored
// value unchanged.
type updateUserRequest struct {
	Name     ports.Patch[string] `json:"name"     validate:"omitnil,max=200"`
	Email    ports.Patch[string] `json:"email"    validate:"omitnil,email"`
	Password ports.Patch[string] `json:"password" validate:"omitnil,password"`
}

type addRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// --- Response types ---

type roleResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type userResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Roles       []roleResponse `json:"roles"`
	CreatedAt   time.Time      `json:"createdAt"`
	LastUpdated time.Time      `json:"lastUpdated"`
}

type userAuthResponse struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"passwordHash"`
	Roles        []roleResponse `json:"roles"`
}

type ackResponse struct {
	OK bool `json:"ok"`
}
