package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/userhub/users-service/internal/api"
	apimiddleware "github.com/userhub/users-service/internal/api/middleware"
)

// NewEcho returns an Echo instance with the middleware shared by every
// listener: panic recovery, request ids, access logs and the JSON error
// envelope.
func NewEcho(log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(apimiddleware.RequestLogger(log))

	return e
}
