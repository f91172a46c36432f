package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/userhub/users-service/internal/api/middleware"
	"github.com/userhub/users-service/internal/core/ports"
)

const (
	testUserID = "5f0c6f1e-8f7a-4c55-9a36-1d2c3b4a5e6f"
	testRoleID = "9b1d2c3e-4f5a-4b6c-8d7e-0f1a2b3c4d5e"
)

var testTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type stubUserService struct {
	createFn      func(ctx context.Context, in ports.CreateUserInput) (*ports.UserView, error)
	findAllFn     func(ctx context.Context, in ports.ListUsersInput) ([]ports.UserView, error)
	findByIDFn    func(ctx context.Context, id string) (*ports.UserView, error)
	findByEmailFn func(ctx context.Context, email string) (*ports.UserAuthView, error)
	updateFn      func(ctx context.Context, in ports.UpdateUserInput) (*ports.UserView, error)
	deleteFn      func(ctx context.Context, id, callerID string) (*ports.Ack, error)
}

func (s *stubUserService) Create(ctx context.Context, in ports.CreateUserInput) (*ports.UserView, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserService) FindAll(ctx context.Context, in ports.ListUsersInput) ([]ports.UserView, error) {
	return s.findAllFn(ctx, in)
}

func (s *stubUserService) FindByID(ctx context.Context, id string) (*ports.UserView, error) {
	return s.findByIDFn(ctx, id)
}

func (s *stubUserService) FindByEmailForAuth(ctx context.Context, email string) (*ports.UserAuthView, error) {
	return s.findByEmailFn(ctx, email)
}

func (s *stubUserService) Update(ctx context.Context, in ports.UpdateUserInput) (*ports.UserView, error) {
	return s.updateFn(ctx, in)
}

func (s *stubUserService) Delete(ctx context.Context, id, callerID string) (*ports.Ack, error) {
	return s.deleteFn(ctx, id, callerID)
}

type stubRoleService struct {
	addFn    func(ctx context.Context, in ports.AddRoleInput) (*ports.RoleView, error)
	deleteFn func(ctx context.Context, roleID, callerID string) (*ports.Ack, error)
}

func (s *stubRoleService) AddRole(ctx context.Context, in ports.AddRoleInput) (*ports.RoleView, error) {
	return s.addFn(ctx, in)
}

func (s *stubRoleService) DeleteRole(ctx context.Context, roleID, callerID string) (*ports.Ack, error) {
	return s.deleteFn(ctx, roleID, callerID)
}

func sampleView() *ports.UserView {
	return &ports.UserView{
		ID:          testUserID,
		Name:        "Gonza",
		Email:       "gonzalo@test.com",
		Roles:       []ports.RoleView{{ID: testRoleID, Role: "CUSTOMER", CreatedAt: testTime}},
		CreatedAt:   testTime,
		LastUpdated: testTime,
	}
}

// newContext builds an echo context with the validator installed, the given
// path parameters and, when caller is non-empty, an authenticated caller.
func newContext(method, target string, body io.Reader, caller string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	if caller != "" {
		c.Set(middleware.CallerIDKey, caller)
	}
	return c, rec
}
