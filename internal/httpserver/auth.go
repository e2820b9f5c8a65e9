package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shopit/internal/logging"
	authmw "github.com/Skotchmaster/shopit/internal/middleware/auth"
	"github.com/Skotchmaster/shopit/internal/service"
	"github.com/Skotchmaster/shopit/internal/tokens"
	"github.com/Skotchmaster/shopit/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
	// CookieTTL caps the cookie lifetime below the token's own expiry.
	CookieTTL    time.Duration
	CookieSecure bool
}

func (h *AuthHTTP) sendToken(c echo.Context, res *service.AuthResult) error {
	expires := res.ExpiresAt
	if h.CookieTTL > 0 {
		if capped := time.Now().Add(h.CookieTTL); capped.Before(expires) {
			expires = capped
		}
	}
	c.SetCookie(tokens.SessionCookie(res.Token, expires, h.CookieSecure))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"token":   res.Token,
		"user":    res.User,
	})
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		logging.FromContext(c.Request().Context()).Warn("bind_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	return c.Validate(req)
}

func (h *AuthHTTP) Register(c echo.Context) error {
	var req transport.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.Svc.Register(c.Request().Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return h.sendToken(c, res)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	var req transport.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.Svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.sendToken(c, res)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	c.SetCookie(tokens.ClearCookie(h.CookieSecure))
	logging.FromContext(c.Request().Context()).Info("logout_successful")
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Logged out",
	})
}

func (h *AuthHTTP) ForgotPassword(c echo.Context) error {
	var req transport.ForgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	origin := c.Scheme() + "://" + c.Request().Host
	if err := h.Svc.ForgotPassword(c.Request().Context(), req.Email, origin); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Email sent to: " + strings.TrimSpace(req.Email),
	})
}

func (h *AuthHTTP) ResetPassword(c echo.Context) error {
	var req transport.ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.Svc.ResetPassword(c.Request().Context(), c.Param("token"), req.Password, req.ConfirmPassword)
	if err != nil {
		return err
	}
	return h.sendToken(c, res)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	user, err := h.Svc.Me(c.Request().Context(), authmw.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}

func (h *AuthHTTP) UpdatePassword(c echo.Context) error {
	var req transport.UpdatePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.Svc.UpdatePassword(c.Request().Context(), authmw.CurrentUser(c).ID, req.OldPassword, req.Password)
	if err != nil {
		return err
	}
	return h.sendToken(c, res)
}

func (h *AuthHTTP) UpdateProfile(c echo.Context) error {
	var req transport.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.Svc.UpdateProfile(c.Request().Context(), authmw.CurrentUser(c).ID, req.Name, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}
