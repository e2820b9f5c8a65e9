package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	authmw "github.com/Skotchmaster/shopit/internal/middleware/auth"
	"github.com/Skotchmaster/shopit/internal/models"
)

type Deps struct {
	Auth     *AuthHTTP
	Users    *UsersHTTP
	Products *ProductsHTTP
	Orders   *OrdersHTTP
	Health   *HealthHTTP
	Gate     *authmw.Gate

	AuthRatePerMinute int
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", d.Health.Live)
	e.GET("/health/ready", d.Health.Ready)

	v1 := e.Group("/api/v1")

	session := d.Gate.Authenticate()
	admin := authmw.AuthorizeRoles(models.RoleAdmin)

	// Attached per route: a group middleware would also run for unmatched
	// /api/v1 paths.
	limit := authRateLimiter(d.AuthRatePerMinute)
	v1.POST("/register", d.Auth.Register, limit)
	v1.POST("/login", d.Auth.Login, limit)
	v1.POST("/password/forgot", d.Auth.ForgotPassword, limit)
	v1.PUT("/password/reset/:token", d.Auth.ResetPassword, limit)
	v1.GET("/logout", d.Auth.Logout)

	v1.GET("/me", d.Auth.Me, session)
	v1.PUT("/password/update", d.Auth.UpdatePassword, session)
	v1.PUT("/me/update", d.Auth.UpdateProfile, session)

	v1.GET("/admin/users", d.Users.ListUsers, session, admin)
	v1.GET("/admin/user/:id", d.Users.GetUser, session, admin)
	v1.PUT("/admin/user/:id", d.Users.UpdateUser, session, admin)
	v1.DELETE("/admin/user/:id", d.Users.DeleteUser, session, admin)

	v1.GET("/products", d.Products.GetProducts)
	v1.GET("/products/search", d.Products.SearchProducts)
	v1.GET("/product/:id", d.Products.GetProduct)
	v1.POST("/admin/product/new", d.Products.CreateProduct, session, admin)
	v1.PUT("/admin/product/:id", d.Products.UpdateProduct, session, admin)
	v1.DELETE("/admin/product/:id", d.Products.DeleteProduct, session, admin)

	v1.PUT("/review", d.Products.UpsertReview, session)
	v1.GET("/reviews", d.Products.GetReviews, session)
	v1.DELETE("/reviews", d.Products.DeleteReview, session)

	v1.POST("/order/new", d.Orders.CreateOrder, session)
	v1.GET("/order/:id", d.Orders.GetOrder, session)
	v1.GET("/orders/me", d.Orders.MyOrders, session)
	v1.GET("/admin/orders", d.Orders.AllOrders, session, admin)
	v1.PUT("/admin/order/:id", d.Orders.UpdateOrder, session, admin)
	v1.DELETE("/admin/order/:id", d.Orders.DeleteOrder, session, admin)
}

// authRateLimiter throttles the unauthenticated credential endpoints per
// client IP. A non-positive limit disables it.
func authRateLimiter(perMinute int) echo.MiddlewareFunc {
	if perMinute <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perMinute) / 60),
		Burst:     perMinute,
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "Cannot identify client")
		},
		DenyHandler: func(c echo.Context, id string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests, please try again later")
		},
	})
}
