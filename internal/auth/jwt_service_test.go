package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"biblio/internal/model"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")

	sessionID, token, err := svc.GenerateSessionToken(7, "alice", model.RoleUser)
	assert.NoError(t, err)
	assert.NotEmpty(t, sessionID)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.Equal(t, sessionID, claims.ID)

	extracted, err := svc.ExtractSessionID(token)
	assert.NoError(t, err)
	assert.Equal(t, sessionID, extracted)
}

func TestJWTService_WrongSecret(t *testing.T) {
	_, token, err := NewJWTService("secret-a").GenerateSessionToken(7, "alice", model.RoleUser)
	assert.NoError(t, err)

	_, err = NewJWTService("secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthorize(t *testing.T) {
	adminIdent := Identity{UserID: 1, Username: "root", Role: model.RoleAdmin}
	userIdent := Identity{UserID: 2, Username: "alice", Role: model.RoleUser}

	assert.True(t, Authorize(adminIdent, model.RoleAdmin))
	assert.True(t, Authorize(userIdent, model.RoleUser))

	// Roles are flat: neither implies the other.
	assert.False(t, Authorize(adminIdent, model.RoleUser))
	assert.False(t, Authorize(userIdent, model.RoleAdmin))
}
