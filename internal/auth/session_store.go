package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"biblio/internal/cache"
	"biblio/internal/model"
)

const sessionKeyPrefix = "session:"

// SessionStoreInterface defines the interface for session storage operations.
type SessionStoreInterface interface {
	StoreSession(ctx context.Context, sessionID string, userID uint, username string, role model.Role, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (userID uint, username string, role model.Role, err error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// SessionStore binds session ids to authenticated identities in Redis.
// A token whose session id is absent from the store is treated as
// logged out regardless of its signature.
type SessionStore struct {
	cache *cache.Client
}

// Ensure SessionStore implements SessionStoreInterface
var _ SessionStoreInterface = (*SessionStore)(nil)

// NewSessionStore creates a new session store.
func NewSessionStore(cache *cache.Client) *SessionStore {
	return &SessionStore{cache: cache}
}

// StoreSession stores a session binding in Redis with TTL.
func (s *SessionStore) StoreSession(ctx context.Context, sessionID string, userID uint, username string, role model.Role, ttl time.Duration) error {
	data := map[string]interface{}{
		"user_id":  userID,
		"username": username,
		"role":     string(role),
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal session data: %w", err)
	}

	key := sessionKeyPrefix + sessionID
	return s.cache.Set(ctx, key, payload, ttl)
}

// GetSession retrieves a session binding from Redis.
func (s *SessionStore) GetSession(ctx context.Context, sessionID string) (userID uint, username string, role model.Role, err error) {
	key := sessionKeyPrefix + sessionID
	data, err := s.cache.Get(ctx, key)
	if err != nil || data == nil {
		return 0, "", "", fmt.Errorf("session not found")
	}

	var sessionData map[string]interface{}
	if err := json.Unmarshal(data, &sessionData); err != nil {
		return 0, "", "", fmt.Errorf("unmarshal session data: %w", err)
	}

	uid, ok := sessionData["user_id"].(float64)
	if !ok {
		return 0, "", "", fmt.Errorf("invalid user_id in session data")
	}
	userID = uint(uid)

	username, ok = sessionData["username"].(string)
	if !ok {
		return 0, "", "", fmt.Errorf("invalid username in session data")
	}

	roleStr, ok := sessionData["role"].(string)
	if !ok {
		return 0, "", "", fmt.Errorf("invalid role in session data")
	}
	role = model.Role(roleStr)

	return userID, username, role, nil
}

// DeleteSession removes a session binding from Redis. Deleting a
// session that does not exist is a no-op, which makes logout idempotent.
func (s *SessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	key := sessionKeyPrefix + sessionID
	return s.cache.Delete(ctx, key)
}
