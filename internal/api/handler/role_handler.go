package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/users-service/internal/api/metrics"
	"github.com/userhub/users-service/internal/core/ports"
)

// RoleHandler handles HTTP requests for role grants.
type RoleHandler struct {
	service ports.RoleService
}

func NewRoleHandler(service ports.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// Add handles POST /api/users/:userId/roles.
//
// @Summary      Grant a role to the caller's user
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        X-UserId  header    string          true  "Caller user id"
// @Param        userId    path      string          true  "User id (UUID)"
// @Param        body      body      addRoleRequest  true  "Role name (CUSTOMER or OWNER)"
// @Success      201       {object}  roleResponse
// @Failure      400       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Router       /api/users/{userId}/roles [post]
func (h *RoleHandler) Add(c echo.Context) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}

	var req addRoleRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	view, err := h.service.AddRole(c.Request().Context(), ports.AddRoleInput{
		UserID:   userID,
		CallerID: caller,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	metrics.RolesAddedTotal.WithLabelValues(view.Role).Inc()
	return c.JSON(http.StatusCreated, toRoleResponse(*view))
}

// Delete handles DELETE /api/users/roles/:id.
//
// @Summary      Revoke one of the caller's roles
// @Tags         roles
// @Produce      json
// @Param        X-UserId  header    string  true  "Caller user id"
// @Param        id        path      string  true  "Role record id (UUID)"
// @Success      200       {object}  ackResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /api/users/roles/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ack, err := h.service.DeleteRole(c.Request().Context(), id, caller)
	if err != nil {
		return err
	}

	metrics.RolesRemovedTotal.Inc()
	return c.JSON(http.StatusOK, ackResponse{OK: ack.OK})
}
