package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shopit/internal/logging"
	authmw "github.com/Skotchmaster/shopit/internal/middleware/auth"
	"github.com/Skotchmaster/shopit/internal/service"
	"github.com/Skotchmaster/shopit/internal/transport"
)

type UsersHTTP struct {
	Svc *service.UserAdminService
}

func (h *UsersHTTP) ListUsers(c echo.Context) error {
	users, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "users": users})
}

func (h *UsersHTTP) GetUser(c echo.Context) error {
	user, err := h.Svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}

func (h *UsersHTTP) UpdateUser(c echo.Context) error {
	var req transport.AdminUpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	_, err := h.Svc.Update(c.Request().Context(), c.Param("id"), service.AdminUserUpdate{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *UsersHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	if err := h.Svc.Delete(ctx, id); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("admin_user_deleted", "target_user_id", id, "admin_id", authmw.CurrentUser(c).ID)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
