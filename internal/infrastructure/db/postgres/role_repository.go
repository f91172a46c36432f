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
	selectRoleByIDSQL       = `SELECT ` + roleColumns + ` FROM user_roles WHERE id = $1`
	selectRoleByUserRoleSQL = `SELECT ` + roleColumns + ` FROM user_roles WHERE user_id = $1 AND role = $2`
	deleteRoleSQL           = `DELETE FROM user_roles WHERE id = $1`
)

type RoleRepository struct {
	db DB
}

var _ ports.RoleRepository = (*RoleRepository)(nil)

func NewRoleRepository(db DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.UserRole) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.Exec(ctx, insertRoleSQL, role.ID, role.UserID, string(role.Role), role.CreatedAt)
	if err != nil {
		if err := translate(err); errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

func (r *RoleRepository) FindByID(ctx context.Context, id string) (*domain.UserRole, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrRoleNotFound
	}
	return r.findOne(ctx, selectRoleByIDSQL, id)
}

func (r *RoleRepository) FindByUserAndRole(ctx context.Context, userID string, role domain.Role) (*domain.UserRole, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, domain.ErrRoleNotFound
	}
	return r.findOne(ctx, selectRoleByUserRoleSQL, userID, string(role))
}

func (r *RoleRepository) Delete(ctx context.Context, role *domain.UserRole) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, deleteRoleSQL, role.ID)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

func (r *RoleRepository) findOne(ctx context.Context, query string, args ...any) (*domain.UserRole, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	role, err := scanRole(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &role, nil
}
