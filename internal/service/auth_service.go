package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"biblio/internal/auth"
	"biblio/internal/errors"
	"biblio/internal/model"
	"biblio/internal/repository"
)

const bcryptCost = 10

const (
	minCredentialLen = 4
	maxCredentialLen = 150
)

// AuthService handles registration, login and session invalidation.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (token string, user *model.User, err error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	userRepo     repository.UserRepository
	jwtService   *auth.JWTService
	sessionStore auth.SessionStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, sessionStore auth.SessionStoreInterface) AuthService {
	return &authService{
		userRepo:     userRepo,
		jwtService:   jwtService,
		sessionStore: sessionStore,
	}
}

// Register creates a new user with a hashed password and the user role.
// Role assignment has no route; admins are created out of band by the
// seed tool.
func (s *authService) Register(ctx context.Context, username, password string) (*model.User, error) {
	if !credentialLengthOK(username) || !credentialLengthOK(password) {
		return nil, errors.ErrInvalidInput
	}

	// Check if the username is already taken (case-sensitive exact match)
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, errors.ErrUsernameTaken
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check username existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleUser,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique index catches the concurrent-insert case the
		// pre-check above cannot.
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user and binds a new session. Every failure
// path returns the same ErrInvalidCredentials so usernames cannot be
// enumerated.
func (s *authService) Login(ctx context.Context, username, password string) (token string, user *model.User, err error) {
	user, err = s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, errors.ErrInvalidCredentials
	}

	sessionID, token, err := s.jwtService.GenerateSessionToken(user.ID, user.Username, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("generate session token: %w", err)
	}

	if err := s.sessionStore.StoreSession(ctx, sessionID, user.ID, user.Username, user.Role, auth.SessionExpiry); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}

	return token, user, nil
}

// Logout invalidates a session. Idempotent: logging out an already
// ended session succeeds.
func (s *authService) Logout(ctx context.Context, token string) error {
	sessionID, err := s.jwtService.ExtractSessionID(token)
	if err != nil {
		return errors.ErrInvalidSession
	}
	return s.sessionStore.DeleteSession(ctx, sessionID)
}

func credentialLengthOK(v string) bool {
	n := utf8.RuneCountInString(v)
	return n >= minCredentialLen && n <= maxCredentialLen
}
