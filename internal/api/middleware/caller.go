package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	// CallerHeader carries the id of the user issuing the request. It is
	// trusted as-is; an upstream gateway is expected to set it.
	CallerHeader = "X-UserId"
	// CallerIDKey is the echo context key holding the caller id.
	CallerIDKey = "caller_id"
)

// CallerIdentity rejects requests without a caller header and stores the
// caller id in the context for handlers.
func CallerIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := strings.TrimSpace(c.Request().Header.Get(CallerHeader))
			if id == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "missing "+CallerHeader+" header")
			}
			c.Set(CallerIDKey, id)
			return next(c)
		}
	}
}
