package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shopit/internal/apperr"
	"github.com/Skotchmaster/shopit/internal/logging"
	"github.com/Skotchmaster/shopit/internal/models"
	"github.com/Skotchmaster/shopit/internal/repo"
	"github.com/Skotchmaster/shopit/internal/tokens"
)

const (
	MsgLoginFirst = "Login first to access this resource"

	ContextKeyClaims = "claims"
	ContextKeyUser   = "user"
	ContextKeyUserID = "user_id"
)

type UserLoader interface {
	GetUser(ctx context.Context, id string, opts ...repo.ReadOption) (*models.User, error)
}

// Gate guards routes with the session cookie. Every request re-reads the
// user so a deleted account or a changed role takes effect immediately.
type Gate struct {
	issuer *tokens.Issuer
	users  UserLoader
}

func NewGate(issuer *tokens.Issuer, users UserLoader) *Gate {
	return &Gate{issuer: issuer, users: users}
}

func (g *Gate) Authenticate() echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + tokens.CookieName,
		ContextKey:  ContextKeyClaims,
		ParseTokenFunc: func(_ echo.Context, raw string) (any, error) {
			return g.issuer.Parse(raw)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logging.FromContext(c.Request().Context()).Warn("auth_failed", "status", 401, "reason", err.Error())
			return apperr.Unauthenticated(MsgLoginFirst)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(g.loadUser(next))
	}
}

func (g *Gate) loadUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(ContextKeyClaims).(*tokens.SessionClaims)
		if !ok || claims == nil {
			return apperr.Unauthenticated(MsgLoginFirst)
		}

		ctx := c.Request().Context()
		user, err := g.users.GetUser(ctx, claims.Subject)
		if errors.Is(err, repo.ErrNotFound) || errors.Is(err, repo.ErrInvalidID) {
			logging.FromContext(ctx).Warn("auth_failed", "status", 401, "reason", "user no longer exists", "user_id", claims.Subject)
			return apperr.Unauthenticated(MsgLoginFirst)
		}
		if err != nil {
			return err
		}

		c.Set(ContextKeyUser, user)
		c.Set(ContextKeyUserID, user.ID)
		logger := logging.FromContext(ctx).With("user_id", user.ID)
		c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, logger)))
		return next(c)
	}
}

// AuthorizeRoles must run after Authenticate.
func AuthorizeRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return apperr.Unauthenticated(MsgLoginFirst)
			}
			if !slices.Contains(roles, user.Role) {
				logging.FromContext(c.Request().Context()).Warn("access_denied", "status", 403, "role", user.Role, "path", c.Path())
				return apperr.Forbidden(fmt.Sprintf("Role (%s) is not allowed to access this resource", user.Role))
			}
			return next(c)
		}
	}
}

func CurrentUser(c echo.Context) *models.User {
	u, _ := c.Get(ContextKeyUser).(*models.User)
	return u
}
