package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/userhub/users-service/internal/core/domain"
	"github.com/userhub/users-service/internal/core/ports"
)

// RoleService grants and revokes roles on users.
type RoleService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	logger zerolog.Logger
	now    func() time.Time
}

var _ ports.RoleService = (*RoleService)(nil)

func NewRoleService(users ports.UserRepository, roles ports.RoleRepository, logger zerolog.Logger) *RoleService {
	return &RoleService{
		users:  users,
		roles:  roles,
		logger: logger,
		now:    time.Now,
	}
}

// AddRole grants a catalog role to the caller's own user. The duplicate
// check is advisory; the store's (user, role) uniqueness is authoritative.
func (s *RoleService) AddRole(ctx context.Context, in ports.AddRoleInput) (*ports.RoleView, error) {
	if err := domain.Authorize(in.CallerID, in.UserID); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, wrap("add role: find user", err)
	}

	role, err := domain.NormalizeRole(&in.Role)
	if err != nil {
		return nil, err
	}

	_, err = s.roles.FindByUserAndRole(ctx, user.ID, role)
	switch {
	case err == nil:
		return nil, domain.ErrDuplicateRole
	case !isNotFound(err):
		return nil, wrap("add role: find existing", err)
	}

	record := &domain.UserRole{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Role:      role,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.roles.Create(ctx, record); err != nil {
		if !isDomainError(err) {
			s.logger.Error().Err(err).Str("user_id", user.ID).Str("role", string(role)).Msg("failed to add role")
		}
		return nil, wrap("add role", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", string(role)).Str("role_id", record.ID).Msg("role added")

	view := toRoleView(*record)
	return &view, nil
}

// DeleteRole revokes a role record owned by the caller. Removing the last
// remaining role is allowed.
func (s *RoleService) DeleteRole(ctx context.Context, roleID, callerID string) (*ports.Ack, error) {
	record, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, wrap("delete role: find", err)
	}

	if err := domain.Authorize(callerID, record.UserID); err != nil {
		s.logger.Warn().Str("role_id", roleID).Str("caller_id", callerID).Msg("role deletion forbidden")
		return nil, err
	}

	if err := s.roles.Delete(ctx, record); err != nil {
		s.logger.Error().Err(err).Str("role_id", roleID).Msg("failed to delete role")
		return nil, wrap("delete role", err)
	}

	s.logger.Info().Str("user_id", record.UserID).Str("role", string(record.Role)).Msg("role removed")
	return &ports.Ack{OK: true}, nil
}
