package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/userhub/users-service/internal/core/domain"
	"github.com/userhub/users-service/internal/core/ports"
)

type UserRepository struct {
	users *mongo.Collection
	roles *mongo.Collection
	tx    txRunner
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users: db.Collection(collectionUsers),
		roles: db.Collection(collectionRoles),
		tx:    sessionTransactions(db),
	}
}

// Create inserts the user and its initial roles in one transaction.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.tx(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.users.InsertOne(sc, toUserDocument(user)); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return domain.ErrDuplicateEmail
			}
			return fmt.Errorf("insert user: %w", err)
		}
		if len(user.Roles) == 0 {
			return nil
		}
		docs := make([]interface{}, len(user.Roles))
		for i, role := range user.Roles {
			docs[i] = toRoleDocument(role)
		}
		if _, err := r.roles.InsertMany(sc, docs); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return domain.ErrDuplicateRole
			}
			return fmt.Errorf("insert roles: %w", err)
		}
		return nil
	})
	return err
}

// Update replaces the scalar fields of the user document. Roles live in their
// own collection and are not touched.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.users.UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{
		"name":          user.Name,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"last_updated":  user.LastUpdated,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) List(ctx context.Context, page, limit int) ([]*domain.User, error) {
	return r.find(ctx, bson.M{}, page, limit)
}

// Search matches term as a literal, case-insensitive substring of name or email.
func (r *UserRepository) Search(ctx context.Context, term string, page, limit int) ([]*domain.User, error) {
	return r.find(ctx, searchFilter(term), page, limit)
}

func searchFilter(term string) bson.M {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"name": pattern},
		bson.M{"email": pattern},
	}}
}

// Delete removes the user's roles and then the user in one transaction.
func (r *UserRepository) Delete(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.tx(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.roles.DeleteMany(sc, bson.M{"user_id": user.ID}); err != nil {
			return fmt.Errorf("delete roles: %w", err)
		}
		res, err := r.users.DeleteOne(sc, bson.M{"_id": user.ID})
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if res.DeletedCount == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	roles, err := r.rolesByUser(ctx, []string{doc.ID})
	if err != nil {
		return nil, err
	}
	return doc.toDomain(roles[doc.ID]), nil
}

func (r *UserRepository) find(ctx context.Context, filter bson.M, page, limit int) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	roles, err := r.rolesByUser(ctx, ids)
	if err != nil {
		return nil, err
	}

	users := make([]*domain.User, len(docs))
	for i, d := range docs {
		users[i] = d.toDomain(roles[d.ID])
	}
	return users, nil
}

// rolesByUser loads the roles of every listed user in one query, grouped by
// owner and ordered by creation.
func (r *UserRepository) rolesByUser(ctx context.Context, userIDs []string) (map[string][]domain.UserRole, error) {
	out := make(map[string][]domain.UserRole, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.roles.Find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []roleDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}
	for _, d := range docs {
		out[d.UserID] = append(out[d.UserID], d.toDomain())
	}
	return out, nil
}
