package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/userhub/users-service/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory store shared by the user and role stubs. It enforces the same
// uniqueness and cascade rules as the real drivers.
// ---------------------------------------------------------------------------

type memStore struct {
	users map[string]*domain.User
	roles map[string]*domain.UserRole

	createErr error // if set, user Create returns this error
	updateErr error
	deleteErr error
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[string]*domain.User),
		roles: make(map[string]*domain.UserRole),
	}
}

func (m *memStore) rolesOf(userID string) []domain.UserRole {
	var out []domain.UserRole
	for _, r := range m.roles {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (m *memStore) load(u *domain.User) *domain.User {
	clone := *u
	clone.Roles = m.rolesOf(u.ID)
	return &clone
}

func (m *memStore) emailTaken(email, exceptID string) bool {
	for _, u := range m.users {
		if u.Email == email && u.ID != exceptID {
			return true
		}
	}
	return false
}

type stubUserRepo struct{ *memStore }

func (r stubUserRepo) Create(_ context.Context, user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	if r.emailTaken(user.Email, "") {
		return domain.ErrDuplicateEmail
	}
	clone := *user
	clone.Roles = nil
	r.users[user.ID] = &clone
	for _, role := range user.Roles {
		role := role
		r.roles[role.ID] = &role
	}
	return nil
}

func (r stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return domain.ErrDuplicateEmail
	}
	stored.Name = user.Name
	stored.Email = user.Email
	stored.PasswordHash = user.PasswordHash
	stored.LastUpdated = user.LastUpdated
	return nil
}

func (r stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.load(u), nil
}

func (r stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return r.load(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r stubUserRepo) List(ctx context.Context, page, limit int) ([]*domain.User, error) {
	return r.Search(ctx, "", page, limit)
}

func (r stubUserRepo) Search(_ context.Context, term string, page, limit int) ([]*domain.User, error) {
	term = strings.ToLower(term)
	var matched []*domain.User
	for _, u := range r.users {
		if term != "" &&
			!strings.Contains(strings.ToLower(u.Name), term) &&
			!strings.Contains(strings.ToLower(u.Email), term) {
			continue
		}
		matched = append(matched, r.load(u))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Email < matched[j].Email })

	skip := (page - 1) * limit
	if skip >= len(matched) {
		return []*domain.User{}, nil
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], nil
}

func (r stubUserRepo) Delete(_ context.Context, user *domain.User) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for id, role := range r.roles {
		if role.UserID == user.ID {
			delete(r.roles, id)
		}
	}
	delete(r.users, user.ID)
	return nil
}

type stubRoleRepo struct{ *memStore }

func (r stubRoleRepo) Create(_ context.Context, role *domain.UserRole) error {
	for _, existing := range r.roles {
		if existing.UserID == role.UserID && existing.Role == role.Role {
			return domain.ErrDuplicateRole
		}
	}
	clone := *role
	r.roles[role.ID] = &clone
	return nil
}

func (r stubRoleRepo) FindByID(_ context.Context, id string) (*domain.UserRole, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	clone := *role
	return &clone, nil
}

func (r stubRoleRepo) FindByUserAndRole(_ context.Context, userID string, name domain.Role) (*domain.UserRole, error) {
	for _, role := range r.roles {
		if role.UserID == userID && role.Role == name {
			clone := *role
			return &clone, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r stubRoleRepo) Delete(_ context.Context, role *domain.UserRole) error {
	if _, ok := r.roles[role.ID]; !ok {
		return domain.ErrRoleNotFound
	}
	delete(r.roles, role.ID)
	return nil
}

// ---------------------------------------------------------------------------
// Hasher stubs
// ---------------------------------------------------------------------------

type stubHasher struct {
	err   error
	calls int
}

func (h *stubHasher) Hash(plaintext string) (string, error) {
	h.calls++
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + plaintext, nil
}

var (
	discardLogger = zerolog.Nop()
	errDB         = errors.New("db unavailable")
)

func strPtr(s string) *string { return &s }
