package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/middleware"
)

// Deps carries what the route groups need beyond their handlers.
// Redis may be nil, which turns caching and rate limiting off.
type Deps struct {
	JWTSecret string
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
}

// RegisterRoutes registers routes that do not require authentication:
// the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers registration and login under /v1/auth and the
// authenticated profile endpoint at /v1/me.  Login and register share
// the rate limiter to slow down credential guessing.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, d Deps) {
	g := e.Group("/v1/auth", middleware.NewTokenBucket(d.RateLimit, d.Redis))
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	e.GET("/v1/me", a.Me,
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole("CUSTOMER", "ADMIN"),
	)
}
