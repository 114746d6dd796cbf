package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/middleware"
)

// RegisterReservations registers the booking endpoints under /v1.
// Settings and availability are public, and availability answers are
// cached in Redis.  Booking is open to guests but attaches the caller's
// identity when a token is sent.  Viewing, cancelling and the personal
// dashboard require a token; ownership is checked in the handler.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, d Deps) {
	g := e.Group("/v1")
	g.GET("/settings", h.Settings)
	g.GET("/availability", h.Availability, middleware.NewRedisCache(d.Cache, d.Redis))
	g.POST("/reservations", h.Create,
		middleware.OptionalJWT(d.JWTSecret),
		middleware.NewTokenBucket(d.RateLimit, d.Redis),
	)

	auth := e.Group("/v1",
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole("CUSTOMER", "ADMIN"),
	)
	auth.GET("/reservations/:id", h.Get)
	auth.DELETE("/reservations/:id", h.Cancel)
	auth.GET("/my-reservations", h.Mine)
}
