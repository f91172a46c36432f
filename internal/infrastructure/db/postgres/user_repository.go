package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/userhub/users-service/internal/core/domain"
	"github.com/userhub/users-service/internal/core/ports"
)

const (
	userColumns = `id, name, email, password_hash, created_at, last_updated`
	roleColumns = `id, user_id, role, created_at`

	insertUserSQL = `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	insertRoleSQL = `INSERT INTO user_roles (` + roleColumns + `) VALUES ($1, $2, $3, $4)`

	updateUserSQL = `UPDATE users SET name = $2, email = $3, password_hash = $4, last_updated = $5 WHERE id = $1`
	deleteUserSQL = `DELETE FROM users WHERE id = $1`

	selectUserByIDSQL    = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	selectUserByEmailSQL = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	listUsersSQL         = `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id LIMIT $1 OFFSET $2`
	searchUsersSQL       = `SELECT ` + userColumns + ` FROM users WHERE name ILIKE $3 OR email ILIKE $3 ORDER BY created_at, id LIMIT $1 OFFSET $2`

	selectRolesByUsersSQL = `SELECT ` + roleColumns + ` FROM user_roles WHERE user_id = ANY($1) ORDER BY created_at, id`
)

type UserRepository struct {
	db DB
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user and its initial roles in one transaction.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertUserSQL,
			user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt, user.LastUpdated,
		); err != nil {
			return translate(err)
		}
		for _, role := range user.Roles {
			if _, err := tx.Exec(ctx, insertRoleSQL,
				role.ID, role.UserID, string(role.Role), role.CreatedAt,
			); err != nil {
				return translate(err)
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, domain.ErrConflict) {
		return fmt.Errorf("insert user: %w", err)
	}
	return err
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, updateUserSQL,
		user.ID, user.Name, user.Email, user.PasswordHash, user.LastUpdated,
	)
	if err != nil {
		if err := translate(err); errors.Is(err, domain.ErrConflict) {
			return err
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, selectUserByIDSQL, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, selectUserByEmailSQL, email)
}

func (r *UserRepository) List(ctx context.Context, page, limit int) ([]*domain.User, error) {
	return r.find(ctx, listUsersSQL, limit, (page-1)*limit)
}

// Search matches term as a literal, case-insensitive substring of name or email.
func (r *UserRepository) Search(ctx context.Context, term string, page, limit int) ([]*domain.User, error) {
	return r.find(ctx, searchUsersSQL, limit, (page-1)*limit, containsPattern(term))
}

// Delete removes the user; its roles go with it through ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, deleteUserSQL, user.ID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.LastUpdated = u.LastUpdated.UTC()

	roles, err := r.rolesByUser(ctx, []string{u.ID})
	if err != nil {
		return nil, err
	}
	u.Roles = roles[u.ID]
	if u.Roles == nil {
		u.Roles = []domain.UserRole{}
	}
	return &u, nil
}

func (r *UserRepository) find(ctx context.Context, query string, args ...any) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []*domain.User{}
	ids := []string{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.LastUpdated); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.CreatedAt = u.CreatedAt.UTC()
		u.LastUpdated = u.LastUpdated.UTC()
		users = append(users, &u)
		ids = append(ids, u.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	roles, err := r.rolesByUser(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.Roles = roles[u.ID]
		if u.Roles == nil {
			u.Roles = []domain.UserRole{}
		}
	}
	return users, nil
}

func (r *UserRepository) rolesByUser(ctx context.Context, userIDs []string) (map[string][]domain.UserRole, error) {
	out := make(map[string][]domain.UserRole, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx, selectRolesByUsersSQL, userIDs)
	if err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		out[role.UserID] = append(out[role.UserID], role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}
	return out, nil
}

func scanRole(row pgx.Row) (domain.UserRole, error) {
	var (
		r    domain.UserRole
		name string
	)
	if err := row.Scan(&r.ID, &r.UserID, &name, &r.CreatedAt); err != nil {
		return domain.UserRole{}, err
	}
	r.Role = domain.Role(name)
	r.CreatedAt = r.CreatedAt.UTC()
	return r, nil
}
