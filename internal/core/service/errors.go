package service

import (
	"errors"
	"fmt"

	"github.com/userhub/users-service/internal/core/domain"
)

// wrap annotates infrastructure failures with the operation name. Domain
// errors pass through untouched so their messages stay safe to expose.
func wrap(op string, err error) error {
	if isDomainError(err) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isDomainError(err error) bool {
	for _, kind := range []error{
		domain.ErrNotFound,
		domain.ErrForbidden,
		domain.ErrConflict,
		domain.ErrInvalidRole,
		domain.ErrValidation,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
