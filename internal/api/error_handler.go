package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userhub/users-service/internal/api/metrics"
	"github.com/userhub/users-service/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
// ValidRoles is only set for invalid role names.
type errorResponse struct {
	Error      string   `json:"error"`
	ValidRoles []string `json:"valid_roles,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var roleErr *domain.InvalidRoleError
	switch {
	case errors.As(err, &roleErr):
		metrics.DomainErrorsTotal.WithLabelValues("invalid_role").Inc()
		valid := make([]string, len(roleErr.Valid))
		for i, r := range roleErr.Valid {
			valid[i] = string(r)
		}
		return http.StatusBadRequest, errorResponse{Error: roleErr.Error(), ValidRoles: valid}
	case errors.Is(err, domain.ErrValidation):
		metrics.DomainErrorsTotal.WithLabelValues("validation").Inc()
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		metrics.DomainErrorsTotal.WithLabelValues("not_found").Inc()
		return http.StatusNotFound, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		metrics.DomainErrorsTotal.WithLabelValues("forbidden").Inc()
		return http.StatusForbidden, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		metrics.DomainErrorsTotal.WithLabelValues("conflict").Inc()
		return http.StatusConflict, errorResponse{Error: err.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
