package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userhub/users-service/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantError string
		wantRoles int
	}{
		{"not found", domain.ErrUserNotFound, http.StatusNotFound, "user not found", 0},
		{"forbidden", domain.ErrNotOwner, http.StatusForbidden, domain.ErrNotOwner.Error(), 0},
		{"conflict", domain.ErrDuplicateEmailRole, http.StatusConflict, "duplicate email+role", 0},
		{
			"invalid role",
			&domain.InvalidRoleError{Value: "ADMIN", Valid: domain.ValidRoles()},
			http.StatusBadRequest,
			`invalid role "ADMIN", valid roles: [CUSTOMER, OWNER]`,
			2,
		},
		{"validation", fmt.Errorf("%w: email is required", domain.ErrValidation), http.StatusBadRequest, "validation failed: email is required", 0},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload", 0},
		{"unexpected", errors.New("mongo: connection refused"), http.StatusInternalServerError, "internal server error", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error != tc.wantError {
				t.Fatalf("expected error %q, got %q", tc.wantError, resp.Error)
			}
			if len(resp.ValidRoles) != tc.wantRoles {
				t.Fatalf("expected %d valid roles, got %v", tc.wantRoles, resp.ValidRoles)
			}
		})
	}
}

func TestHTTPErrorHandler_WrappedDomainError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(fmt.Errorf("find user: %w", domain.ErrUserNotFound), c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
