package service

import (
	"github.com/userhub/users-service/internal/core/domain"
	"github.com/userhub/users-service/internal/core/ports"
)

func toRoleView(r domain.UserRole) ports.RoleView {
	return ports.RoleView{
		ID:        r.ID,
		Role:      string(r.Role),
		CreatedAt: r.CreatedAt,
	}
}

func toRoleViews(roles []domain.UserRole) []ports.RoleView {
	out := make([]ports.RoleView, len(roles))
	for i, r := range roles {
		out[i] = toRoleView(r)
	}
	return out
}

func toUserView(u *domain.User) ports.UserView {
	return ports.UserView{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Roles:       toRoleViews(u.Roles),
		CreatedAt:   u.CreatedAt,
		LastUpdated: u.LastUpdated,
	}
}

func toUserAuthView(u *domain.User) ports.UserAuthView {
	return ports.UserAuthView{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Roles:        toRoleViews(u.Roles),
	}
}
