package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/userhub/users-service/internal/core/domain"
	"github.com/userhub/users-service/internal/core/ports"
)

type RoleRepository struct {
	col   *mongo.Collection
	users *mongo.Collection
	tx    txRunner
}

var _ ports.RoleRepository = (*RoleRepository)(nil)

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{
		col:   db.Collection(collectionRoles),
		users: db.Collection(collectionUsers),
		tx:    sessionTransactions(db),
	}
}

// Create inserts a role record. The owner document's roles_version is bumped
// in the same transaction, so a concurrent user delete either sees the new
// role or aborts on a write conflict; a missing owner yields
// domain.ErrUserNotFound. The unique (user_id, role) index turns a concurrent
// duplicate into domain.ErrDuplicateRole.
func (r *RoleRepository) Create(ctx context.Context, role *domain.UserRole) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.tx(ctx, func(sc mongo.SessionContext) error {
		res, err := r.users.UpdateByID(sc, role.UserID, bson.M{"$inc": bson.M{"roles_version": 1}})
		if err != nil {
			return fmt.Errorf("lock role owner: %w", err)
		}
		if res.MatchedCount == 0 {
			return domain.ErrUserNotFound
		}
		if _, err := r.col.InsertOne(sc, toRoleDocument(*role)); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return domain.ErrDuplicateRole
			}
			return fmt.Errorf("insert role: %w", err)
		}
		return nil
	})
}

func (r *RoleRepository) FindByID(ctx context.Context, id string) (*domain.UserRole, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *RoleRepository) FindByUserAndRole(ctx context.Context, userID string, role domain.Role) (*domain.UserRole, error) {
	return r.findOne(ctx, bson.M{"user_id": userID, "role": string(role)})
}

func (r *RoleRepository) Delete(ctx context.Context, role *domain.UserRole) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": role.ID})
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

func (r *RoleRepository) findOne(ctx context.Context, filter bson.M) (*domain.UserRole, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc roleDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	role := doc.toDomain()
	return &role, nil
}
