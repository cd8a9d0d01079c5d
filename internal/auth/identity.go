package auth

import "biblio/internal/model"

// ContextIdentityKey is the echo context key under which the
// authentication middleware stores the caller's Identity.
const ContextIdentityKey = "identity"

// Identity is the authenticated caller. It is passed explicitly into
// every catalog and circulation call; there is no ambient current user.
type Identity struct {
	UserID   uint
	Username string
	Role     model.Role
}

// Authorize reports whether id holds exactly the required role. Roles
// are flat: admin does not imply user and vice versa.
func Authorize(id Identity, required model.Role) bool {
	return id.Role == required
}

// IdentityFromClaims builds an Identity from validated token claims.
func IdentityFromClaims(c *Claims) Identity {
	return Identity{
		UserID:   c.UserID,
		Username: c.Username,
		Role:     c.Role,
	}
}
