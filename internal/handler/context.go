package handler

import (
	"github.com/labstack/echo/v4"

	"biblio/internal/auth"
)

// identityFrom extracts the authenticated identity placed on the
// context by the session middleware.
func identityFrom(c echo.Context) (auth.Identity, bool) {
	ident, ok := c.Get(auth.ContextIdentityKey).(auth.Identity)
	return ident, ok
}
