package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"

	"github.com/userhub/users-service/internal/api/handler"
	"github.com/userhub/users-service/internal/api/middleware"
	"github.com/userhub/users-service/internal/core/ports"
	"github.com/userhub/users-service/internal/infrastructure/http/handlers"
)

// Dependencies are the collaborators the public routes need.
type Dependencies struct {
	Users  ports.UserService
	Roles  ports.RoleService
	Checks []handlers.Check
}

// RegisterPublicRoutes mounts the user and role API, health probes and the
// Prometheus scrape endpoint on e.
func RegisterPublicRoutes(e *echo.Echo, deps Dependencies) {
	e.Validator = handler.NewValidator()

	userHandler := handler.NewUserHandler(deps.Users)
	roleHandler := handler.NewRoleHandler(deps.Roles)
	caller := middleware.CallerIdentity()

	// --- Health probes and metrics (no caller required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewHealthDependenciesHandler(deps.Checks...).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Users ---
	users := e.Group("/api/users")
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.PATCH("/:id", userHandler.Update, caller)
	users.DELETE("/:id", userHandler.Delete, caller)

	// --- Roles ---
	users.POST("/:userId/roles", roleHandler.Add, caller)
	users.DELETE("/roles/:id", roleHandler.Delete, caller)
}

// RegisterInternalRoutes mounts the credential lookup used by the
// authentication service. e must only listen on the internal network.
func RegisterInternalRoutes(e *echo.Echo, users ports.UserService) {
	e.Validator = handler.NewValidator()

	internal := handler.NewInternalHandler(users)
	e.GET("/internal/users/email/:email", internal.FindByEmail)
	e.GET("/health", handlers.NewHealthHandler().Liveness)
}
