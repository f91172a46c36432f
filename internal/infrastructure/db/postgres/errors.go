package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/userhub/users-service/internal/core/domain"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"

	constraintUsersEmail    = "users_email_key"
	constraintUserRolesPair = "user_roles_user_id_role_key"
)

// translate maps constraint violations onto domain errors. Other errors are
// returned unchanged.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		switch pgErr.ConstraintName {
		case constraintUsersEmail:
			return domain.ErrDuplicateEmail
		case constraintUserRolesPair:
			return domain.ErrDuplicateRole
		}
	case codeForeignKeyViolation:
		if strings.HasPrefix(pgErr.ConstraintName, "user_roles_user_id") {
			return domain.ErrUserNotFound
		}
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern that matches term literally.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
