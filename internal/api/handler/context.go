package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/userhub/users-service/internal/api/middleware"
)

// callerID returns the identity injected by the CallerIdentity middleware and
// fails fast when the middleware did not run.
func callerID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.CallerIDKey).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "missing caller identity")
	}
	return id, nil
}

// pathID reads a UUID path parameter.
func pathID(c echo.Context, name string) (string, error) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, name+" must be a valid UUID")
	}
	return id, nil
}
