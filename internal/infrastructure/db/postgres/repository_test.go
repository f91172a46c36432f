package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userhub/users-service/internal/core/domain"
)

const (
	userID = "5f0c6f1e-8f7a-4c55-9a36-1d2c3b4a5e6f"
	roleID = "9b1d2c3e-4f5a-4b6c-8d7e-0f1a2b3c4d5e"
)

var (
	userCols = []string{"id", "name", "email", "password_hash", "created_at", "last_updated"}
	roleCols = []string{"id", "user_id", "role", "created_at"}
	created  = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func q(sql string) string { return regexp.QuoteMeta(sql) }

func sampleUser() *domain.User {
	return &domain.User{
		ID:           userID,
		Name:         "Gonza",
		Email:        "gonzalo@test.com",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    created,
		LastUpdated:  created,
		Roles: []domain.UserRole{
			{ID: roleID, UserID: userID, Role: domain.RoleCustomer, CreatedAt: created},
		},
	}
}

func TestUserRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	u := sampleUser()

	mock.ExpectBegin()
	mock.ExpectExec(q(insertUserSQL)).
		WithArgs(u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt, u.LastUpdated).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(q(insertRoleSQL)).
		WithArgs(roleID, userID, "CUSTOMER", created).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), u))
}

func TestUserRepository_CreateDuplicateEmailRollsBack(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(q(insertUserSQL)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: constraintUsersEmail})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), sampleUser())
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestUserRepository_CreateRoleFailureRollsBack(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	boom := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectExec(q(insertUserSQL)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(q(insertRoleSQL)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(boom)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), sampleUser())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrConflict)
}

func TestUserRepository_FindByID(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(q(selectUserByIDSQL)).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow(userID, "Gonza", "gonzalo@test.com", "$2a$10$hash", created, created))
	mock.ExpectQuery(q(selectRolesByUsersSQL)).
		WithArgs([]string{userID}).
		WillReturnRows(pgxmock.NewRows(roleCols).
			AddRow(roleID, userID, "CUSTOMER", created))

	u, err := repo.FindByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "gonzalo@test.com", u.Email)
	require.Len(t, u.Roles, 1)
	assert.Equal(t, domain.RoleCustomer, u.Roles[0].Role)
}

func TestUserRepository_FindByIDNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(q(selectUserByIDSQL)).
		WithArgs(userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByID(context.Background(), userID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_FindByIDMalformed(t *testing.T) {
	repo := NewUserRepository(newMock(t))

	_, err := repo.FindByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_SearchEscapesWildcards(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(q(searchUsersSQL)).
		WithArgs(20, 20, `%50\%\_off%`).
		WillReturnRows(pgxmock.NewRows(userCols))

	users, err := repo.Search(context.Background(), "50%_off", 2, 20)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestUserRepository_List(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	otherID := "0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"

	mock.ExpectQuery(q(listUsersSQL)).
		WithArgs(10, 0).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow(userID, "Gonza", "gonzalo@test.com", "h1", created, created).
			AddRow(otherID, "Ana", "ana@test.com", "h2", created, created))
	mock.ExpectQuery(q(selectRolesByUsersSQL)).
		WithArgs([]string{userID, otherID}).
		WillReturnRows(pgxmock.NewRows(roleCols).
			AddRow(roleID, userID, "OWNER", created))

	users, err := repo.List(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Len(t, users[0].Roles, 1)
	assert.NotNil(t, users[1].Roles)
	assert.Empty(t, users[1].Roles)
}

func TestUserRepository_Update(t *testing.T) {
	tests := []struct {
		name    string
		result  pgconn.CommandTag
		err     error
		wantErr error
	}{
		{name: "ok", result: pgxmock.NewResult("UPDATE", 1)},
		{name: "missing", result: pgxmock.NewResult("UPDATE", 0), wantErr: domain.ErrUserNotFound},
		{
			name:    "email taken",
			err:     &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: constraintUsersEmail},
			wantErr: domain.ErrDuplicateEmail,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mock := newMock(t)
			repo := NewUserRepository(mock)
			u := sampleUser()

			exp := mock.ExpectExec(q(updateUserSQL)).
				WithArgs(u.ID, u.Name, u.Email, u.PasswordHash, u.LastUpdated)
			if tc.err != nil {
				exp.WillReturnError(tc.err)
			} else {
				exp.WillReturnResult(tc.result)
			}

			err := repo.Update(context.Background(), u)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUserRepository_Delete(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(q(deleteUserSQL)).
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.Delete(context.Background(), sampleUser()))
}

func TestRoleRepository_Create(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "ok"},
		{
			name:    "duplicate pair",
			err:     &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: constraintUserRolesPair},
			wantErr: domain.ErrDuplicateRole,
		},
		{
			name:    "owner vanished",
			err:     &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "user_roles_user_id_fkey"},
			wantErr: domain.ErrUserNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mock := newMock(t)
			repo := NewRoleRepository(mock)
			role := &domain.UserRole{ID: roleID, UserID: userID, Role: domain.RoleOwner, CreatedAt: created}

			exp := mock.ExpectExec(q(insertRoleSQL)).WithArgs(roleID, userID, "OWNER", created)
			if tc.err != nil {
				exp.WillReturnError(tc.err)
			} else {
				exp.WillReturnResult(pgxmock.NewResult("INSERT", 1))
			}

			err := repo.Create(context.Background(), role)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestRoleRepository_FindByUserAndRole(t *testing.T) {
	mock := newMock(t)
	repo := NewRoleRepository(mock)

	mock.ExpectQuery(q(selectRoleByUserRoleSQL)).
		WithArgs(userID, "OWNER").
		WillReturnRows(pgxmock.NewRows(roleCols).AddRow(roleID, userID, "OWNER", created))

	role, err := repo.FindByUserAndRole(context.Background(), userID, domain.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, roleID, role.ID)
	assert.Equal(t, domain.RoleOwner, role.Role)
}

func TestRoleRepository_FindByIDNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewRoleRepository(mock)

	mock.ExpectQuery(q(selectRoleByIDSQL)).
		WithArgs(roleID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByID(context.Background(), roleID)
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)

	_, err = repo.FindByID(context.Background(), "bogus")
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)
}

func TestRoleRepository_DeleteMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewRoleRepository(mock)

	mock.ExpectExec(q(deleteRoleSQL)).
		WithArgs(roleID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), &domain.UserRole{ID: roleID})
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%gonza%", containsPattern("gonza"))
	assert.Equal(t, `%a\\b%`, containsPattern(`a\b`))
}
