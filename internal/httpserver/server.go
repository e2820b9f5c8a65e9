package httpserver

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	loggingmw "github.com/Skotchmaster/shopit/internal/middleware/logging"
)

type Options struct {
	Logger       *slog.Logger
	Dev          bool
	CORSOrigins  []string
	CSRF         bool
	CookieSecure bool
}

// New builds the echo instance with the shared middleware stack and all
// routes registered.
func New(o Options, d *Deps) *echo.Echo {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(o.Dev)

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(o.Logger))
	e.Use(middleware.Recover())

	if len(o.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     o.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderXCSRFToken, echo.HeaderXRequestID},
			AllowCredentials: true,
		}))
	}

	if o.CSRF {
		e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
			Skipper: func(c echo.Context) bool {
				return strings.HasPrefix(c.Request().URL.Path, "/health/")
			},
			TokenLookup:    "header:" + echo.HeaderXCSRFToken,
			CookieName:     "_csrf",
			CookiePath:     "/",
			CookieSecure:   o.CookieSecure,
			CookieSameSite: http.SameSiteLaxMode,
		}))
	}

	Register(e, d)
	return e
}
