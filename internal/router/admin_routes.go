package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.
// All routes require a valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, d Deps) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Reservations ----
	g.GET("/reservations", a.ListReservations)
	g.PATCH("/reservations/:id/status", a.UpdateStatus)
	g.GET("/stats", a.Stats)

	// ---- Settings ----
	g.PUT("/settings", a.UpdateSettings)
	g.PATCH("/settings", a.UpdateSettings) // same merge semantics as PUT

	// ---- Tables ----
	g.POST("/tables", a.AddTable)
	g.PATCH("/tables/:id", a.UpdateTable)
	g.DELETE("/tables/:id", a.RemoveTable)
}
