package middleware

// identity.go exposes what the JWT middlewares stored in the Echo
// context.  Unauthenticated requests resolve to the guest identity.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/utils"
)

// CurrentIdentity returns the authenticated identity, if any.
func CurrentIdentity(c echo.Context) (utils.Identity, bool) {
	id, ok := c.Get(ctxIdentity).(utils.Identity)
	return id, ok
}

// CurrentUserID returns the authenticated user's ID or "guest".
func CurrentUserID(c echo.Context) string {
	if s, ok := c.Get(ctxUserID).(string); ok && s != "" {
		return s
	}
	return model.GuestUserID
}

// IsAdmin reports whether the request carries the ADMIN role.
func IsAdmin(c echo.Context) bool {
	role, _ := c.Get(ctxRole).(string)
	return role == model.RoleAdmin
}
