package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhub/users-service/internal/core/domain"
	"github.com/userhub/users-service/internal/core/ports"
)

const (
	userKeyPrefix    = "users:id:"
	versionKeyPrefix = "users:ver:"

	// versionTTL outlives any in-flight read by a wide margin.
	versionTTL = 24 * time.Hour
)

func userKey(id string) string    { return userKeyPrefix + id }
func versionKey(id string) string { return versionKeyPrefix + id }

// cachedUser mirrors domain.User including the password hash, which the
// domain type hides from JSON.
type cachedUser struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	PasswordHash string            `json:"password_hash"`
	CreatedAt    time.Time         `json:"created_at"`
	LastUpdated  time.Time         `json:"last_updated"`
	Roles        []domain.UserRole `json:"roles"`
}

func fromUser(u *domain.User) cachedUser {
	return cachedUser{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		LastUpdated:  u.LastUpdated,
		Roles:        u.Roles,
	}
}

func (c cachedUser) toUser() *domain.User {
	roles := c.Roles
	if roles == nil {
		roles = []domain.UserRole{}
	}
	return &domain.User{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		CreatedAt:    c.CreatedAt.UTC(),
		LastUpdated:  c.LastUpdated.UTC(),
		Roles:        roles,
	}
}

// CachedUserRepository is a read-through cache for FindByID. Writes go to the
// wrapped repository first, then bump the user's version key and drop the
// cached entry. A fill is discarded when the version moved while the row was
// being read, so a slow reader cannot put a pre-write row back. Cache failures
// are logged and never fail the call.
type CachedUserRepository struct {
	next   ports.UserRepository
	store  Store
	ttl    time.Duration
	logger zerolog.Logger
}

var _ ports.UserRepository = (*CachedUserRepository)(nil)

func NewCachedUserRepository(next ports.UserRepository, store Store, ttl time.Duration, logger zerolog.Logger) *CachedUserRepository {
	return &CachedUserRepository{next: next, store: store, ttl: ttl, logger: logger}
}

func (r *CachedUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	key := userKey(id)

	b, err := r.store.Get(ctx, key)
	switch {
	case err == nil:
		var cu cachedUser
		if jerr := json.Unmarshal(b, &cu); jerr == nil {
			return cu.toUser(), nil
		}
		r.logger.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	case !errors.Is(err, ErrCacheMiss):
		r.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	version, verErr := r.store.Version(ctx, versionKey(id))
	if verErr != nil {
		r.logger.Warn().Err(verErr).Str("key", key).Msg("cache version read failed")
	}

	user, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if verErr != nil {
		return user, nil
	}

	b, err = json.Marshal(fromUser(user))
	if err != nil {
		return user, nil
	}
	err = r.store.SetIfVersion(ctx, key, b, r.ttl, versionKey(id), version)
	switch {
	case errors.Is(err, ErrStaleWrite):
		r.logger.Debug().Str("key", key).Msg("skipping cache fill after concurrent write")
	case err != nil:
		r.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return user, nil
}

func (r *CachedUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.next.Create(ctx, user); err != nil {
		return err
	}
	r.Invalidate(ctx, user.ID)
	return nil
}

func (r *CachedUserRepository) Update(ctx context.Context, user *domain.User) error {
	err := r.next.Update(ctx, user)
	r.Invalidate(ctx, user.ID)
	return err
}

func (r *CachedUserRepository) Delete(ctx context.Context, user *domain.User) error {
	err := r.next.Delete(ctx, user)
	r.Invalidate(ctx, user.ID)
	return err
}

func (r *CachedUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.next.FindByEmail(ctx, email)
}

func (r *CachedUserRepository) List(ctx context.Context, page, limit int) ([]*domain.User, error) {
	return r.next.List(ctx, page, limit)
}

func (r *CachedUserRepository) Search(ctx context.Context, term string, page, limit int) ([]*domain.User, error) {
	return r.next.Search(ctx, term, page, limit)
}

// Invalidate bumps the version of userID and drops its cached aggregate.
func (r *CachedUserRepository) Invalidate(ctx context.Context, userID string) {
	if err := r.store.Bump(ctx, versionKey(userID), versionTTL); err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("cache version bump failed")
	}
	if err := r.store.Del(ctx, userKey(userID)); err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("cache invalidation failed")
	}
}

// CachedRoleRepository invalidates the owner's cached aggregate on every role write.
type CachedRoleRepository struct {
	next  ports.RoleRepository
	users *CachedUserRepository
}

var _ ports.RoleRepository = (*CachedRoleRepository)(nil)

func NewCachedRoleRepository(next ports.RoleRepository, users *CachedUserRepository) *CachedRoleRepository {
	return &CachedRoleRepository{next: next, users: users}
}

func (r *CachedRoleRepository) Create(ctx context.Context, role *domain.UserRole) error {
	err := r.next.Create(ctx, role)
	r.users.Invalidate(ctx, role.UserID)
	return err
}

func (r *CachedRoleRepository) Delete(ctx context.Context, role *domain.UserRole) error {
	err := r.next.Delete(ctx, role)
	r.users.Invalidate(ctx, role.UserID)
	return err
}

func (r *CachedRoleRepository) FindByID(ctx context.Context, id string) (*domain.UserRole, error) {
	return r.next.FindByID(ctx, id)
}

func (r *CachedRoleRepository) FindByUserAndRole(ctx context.Context, userID string, role domain.Role) (*domain.UserRole, error) {
	return r.next.FindByUserAndRole(ctx, userID, role)
}
