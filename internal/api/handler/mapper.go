package handler

import "github.com/userhub/users-service/internal/core/ports"

func toRoleResponse(v ports.RoleView) roleResponse {
	return roleResponse{ID: v.ID, Role: v.Role, CreatedAt: v.CreatedAt}
}

func toRoleResponses(views []ports.RoleView) []roleResponse {
	out := make([]roleResponse, len(views))
	for i, v := range views {
		out[i] = toRoleResponse(v)
	}
	return out
}

func toUserResponse(v ports.UserView) userResponse {
	return userResponse{
		ID:          v.ID,
		Name:        v.Name,
		Email:       v.Email,
		Roles:       toRoleResponses(v.Roles),
		CreatedAt:   v.CreatedAt,
		LastUpdated: v.LastUpdated,
	}
}

func toUserResponses(views []ports.UserView) []userResponse {
	out := make([]userResponse, len(views))
	for i, v := range views {
		out[i] = toUserResponse(v)
	}
	return out
}

func toUserAuthResponse(v ports.UserAuthView) userAuthResponse {
	return userAuthResponse{
		ID:           v.ID,
		Email:        v.Email,
		PasswordHash: v.PasswordHash,
		Roles:        toRoleResponses(v.Roles),
	}
}
