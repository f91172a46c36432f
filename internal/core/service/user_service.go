package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/userhub/users-service/internal/core/domain"
	"github.com/userhub/users-service/internal/core/ports"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
	// maxPage keeps (page-1)*limit far from int overflow.
	maxPage = 100_000
)

// UserService implements user registration, lookup, update and removal.
type UserService struct {
	users  ports.UserRepository
	hasher ports.Hasher
	logger zerolog.Logger
	now    func() time.Time
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(users ports.UserRepository, hasher ports.Hasher, logger zerolog.Logger) *UserService {
	return &UserService{
		users:  users,
		hasher: hasher,
		logger: logger,
		now:    time.Now,
	}
}

// Create registers a new user holding exactly one role. An email that is
// already registered is always rejected; the message tells the caller whether
// the requested role is already held or should be added through an update.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*ports.UserView, error) {
	role, roleErr := domain.NormalizeRole(in.Role)

	existing, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		if roleErr == nil && existing.HasRole(role) {
			return nil, domain.ErrDuplicateEmailRole
		}
		return nil, domain.ErrDuplicateEmail
	case !errors.Is(err, domain.ErrNotFound):
		return nil, wrap("create user: find by email", err)
	}

	if roleErr != nil {
		return nil, roleErr
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, wrap("create user: hash password", err)
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		LastUpdated:  now,
	}
	user.Roles = []domain.UserRole{{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Role:      role,
		CreatedAt: now,
	}}

	if err := s.users.Create(ctx, user); err != nil {
		if !isDomainError(err) {
			s.logger.Error().Err(err).Str("email", in.Email).Msg("failed to create user")
		}
		return nil, wrap("create user", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("user created")

	view := toUserView(user)
	return &view, nil
}

// FindAll returns one page of users, filtered by name or email when a query is given.
func (s *UserService) FindAll(ctx context.Context, in ports.ListUsersInput) ([]ports.UserView, error) {
	page := in.Page
	if page <= 0 {
		page = defaultPage
	}
	if page > maxPage {
		page = maxPage
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	var (
		users []*domain.User
		err   error
	)
	if in.Query != "" {
		users, err = s.users.Search(ctx, in.Query, page, limit)
	} else {
		users, err = s.users.List(ctx, page, limit)
	}
	if err != nil {
		return nil, wrap("list users", err)
	}

	views := make([]ports.UserView, len(users))
	for i, u := range users {
		views[i] = toUserView(u)
	}
	return views, nil
}

func (s *UserService) FindByID(ctx context.Context, id string) (*ports.UserView, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, wrap("find user", err)
	}
	view := toUserView(user)
	return &view, nil
}

// FindByEmailForAuth returns the credential view of a user. The result
// carries the password hash and must not leave the internal network.
func (s *UserService) FindByEmailForAuth(ctx context.Context, email string) (*ports.UserAuthView, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, wrap("find user by email", err)
	}
	view := toUserAuthView(user)
	return &view, nil
}

// Update applies the present fields of in to the caller's own user.
func (s *UserService) Update(ctx context.Context, in ports.UpdateUserInput) (*ports.UserView, error) {
	if err := domain.Authorize(in.CallerID, in.ID); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, in.ID)
	if err != nil {
		return nil, wrap("update user: find", err)
	}

	if name, ok := in.Name.Get(); ok {
		user.Name = name
	}
	if email, ok := in.Email.Get(); ok {
		user.Email = email
	}
	if password, ok := in.Password.Get(); ok {
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return nil, wrap("update user: hash password", err)
		}
		user.PasswordHash = hash
	}
	user.Touch(s.now())

	if err := s.users.Update(ctx, user); err != nil {
		if !isDomainError(err) {
			s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to update user")
		}
		return nil, wrap("update user", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user updated")

	view := toUserView(user)
	return &view, nil
}

// Delete removes the caller's own user together with all of its roles.
func (s *UserService) Delete(ctx context.Context, id, callerID string) (*ports.Ack, error) {
	if err := domain.Authorize(callerID, id); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, wrap("delete user: find", err)
	}

	if err := s.users.Delete(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("failed to delete user")
		return nil, wrap("delete user", err)
	}

	s.logger.Info().Str("user_id", id).Int("roles", len(user.Roles)).Msg("user deleted")
	return &ports.Ack{OK: true}, nil
}
