package mongo

import (
	"time"

	"github.com/userhub/users-service/internal/core/domain"
)

type userDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
	LastUpdated  time.Time `bson:"last_updated"`
}

type roleDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Role      string    `bson:"role"`
	CreatedAt time.Time `bson:"created_at"`
}

func toUserDocument(u *domain.User) userDocument {
	return userDocument{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		LastUpdated:  u.LastUpdated,
	}
}

func (d userDocument) toDomain(roles []domain.UserRole) *domain.User {
	if roles == nil {
		roles = []domain.UserRole{}
	}
	return &domain.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt.UTC(),
		LastUpdated:  d.LastUpdated.UTC(),
		Roles:        roles,
	}
}

func toRoleDocument(r domain.UserRole) roleDocument {
	return roleDocument{
		ID:        r.ID,
		UserID:    r.UserID,
		Role:      string(r.Role),
		CreatedAt: r.CreatedAt,
	}
}

func (d roleDocument) toDomain() domain.UserRole {
	return domain.UserRole{
		ID:        d.ID,
		UserID:    d.UserID,
		Role:      domain.Role(d.Role),
		CreatedAt: d.CreatedAt.UTC(),
	}
}
