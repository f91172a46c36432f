package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/userhub/users-service/internal/core/ports"
)

// InternalHandler serves credential lookups to the authentication service.
// It is mounted only on the internal listener.
type InternalHandler struct {
	service ports.UserService
}

func NewInternalHandler(service ports.UserService) *InternalHandler {
	return &InternalHandler{service: service}
}

// FindByEmail handles GET /internal/users/email/:email.
//
// @Summary      Look up credentials by email
// @Tags         internal
// @Produce      json
// @Param        email  path      string  true  "Email address"
// @Success      200    {object}  userAuthResponse
// @Failure      404    {object}  errorResponse
// @Router       /internal/users/email/{email} [get]
func (h *InternalHandler) FindByEmail(c echo.Context) error {
	email, err := url.PathUnescape(c.Param("email"))
	if err != nil || email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	view, err := h.service.FindByEmailForAuth(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserAuthResponse(*view))
}
