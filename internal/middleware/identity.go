package middleware

import (
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/model"
)

// Context keys set by JWTAuth.
const (
	ctxAdmin    = "admin"
	ctxAdminID  = "admin_id"
	ctxUsername = "username"
	ctxRole     = "role"
)

func setIdentity(c echo.Context, id model.Identity) {
	c.Set(ctxAdmin, id)
	c.Set(ctxAdminID, id.ID)
	c.Set(ctxUsername, id.Username)
	c.Set(ctxRole, id.Role)
}

// CurrentAdmin returns the identity stored by JWTAuth.
func CurrentAdmin(c echo.Context) (model.Identity, bool) {
	id, ok := c.Get(ctxAdmin).(model.Identity)
	return id, ok
}

// IsAdmin reports whether the request carries an identity with one of
// AdminRoles.
func IsAdmin(c echo.Context) bool {
	id, ok := CurrentAdmin(c)
	return ok && slices.Contains(AdminRoles, id.Role)
}

// actorKey identifies the caller for rate limiting: the admin username when
// authenticated, "anon" otherwise.
func actorKey(c echo.Context) string {
	if id, ok := CurrentAdmin(c); ok {
		return "admin:" + id.Username
	}
	return "anon"
}
