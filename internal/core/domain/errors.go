package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Boundary code matches these with errors.Is.
var (
	ErrNotFound    = errors.New("not found")
	ErrForbidden   = errors.New("access forbidden")
	ErrConflict    = errors.New("conflict")
	ErrInvalidRole = errors.New("invalid role")
	ErrValidation  = errors.New("validation failed")
)

var (
	ErrUserNotFound = newError(ErrNotFound, "user not found")
	ErrRoleNotFound = newError(ErrNotFound, "user role not found")

	ErrDuplicateEmailRole = newError(ErrConflict, "duplicate email+role")
	ErrDuplicateEmail     = newError(ErrConflict, "duplicate email, use update")
	ErrDuplicateRole      = newError(ErrConflict, "user already has role")
)

// Error is a failure of a given kind whose message is safe to show to callers.
type Error struct {
	kind error
	msg  string
}

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

// Unwrap exposes the kind to errors.Is.
func (e *Error) Unwrap() error { return e.kind }

// InvalidRoleError reports a role name outside the catalog.
type InvalidRoleError struct {
	Value string
	Valid []Role
}

func (e *InvalidRoleError) Error() string {
	names := make([]string, len(e.Valid))
	for i, r := range e.Valid {
		names[i] = string(r)
	}
	return fmt.Sprintf("invalid role %q, valid roles: [%s]", e.Value, strings.Join(names, ", "))
}

// Is lets errors.Is(err, ErrInvalidRole) match.
func (e *InvalidRoleError) Is(target error) bool {
	return target == ErrInvalidRole
}
