package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apperrors "github.com/condovia/condo-server-go/internal/errors"
	"github.com/condovia/condo-server-go/internal/model"
	"github.com/condovia/condo-server-go/internal/repository"
	"github.com/condovia/condo-server-go/internal/util"
)

const sessionTTL = 24 * time.Hour

// LoginResult carries the raw session token (for the cookie) and the user
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

// AuthService handles portal login sessions. Only the HMAC hash of a session
// token is stored; the raw token exists in the client cookie alone.
type AuthService struct {
	userRepo      repository.UserRepository
	sessionRepo   repository.SessionRepository
	sessionSecret string
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, sessionSecret string) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		sessionSecret: sessionSecret,
	}
}

// Login verifies credentials and creates a session. Unknown email, wrong
// password, and deactivated account all fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.InvalidLogin()
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if user == nil || !user.Active || !util.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.InvalidLogin()
	}

	token, err := util.GenerateToken()
	if err != nil {
		return nil, apperrors.Internal("failed to generate session token").WithCause(err)
	}

	expiresAt := time.Now().Add(sessionTTL)
	_, err = s.sessionRepo.Create(ctx, model.CreateSessionParams{
		ID:        uuid.NewString(),
		TokenHash: s.hashToken(token),
		UserID:    user.ID,
		Role:      user.Role,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().
		Str("userId", user.ID).
		Str("role", string(user.Role)).
		Msg("login successful")

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// ValidateSession resolves a raw cookie token to its user, or nil when the
// session is unknown, expired, or belongs to a deactivated account
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessionRepo.FindByTokenHash(ctx, s.hashToken(token))
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if session == nil {
		return nil, nil
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if user == nil || !user.Active {
		return nil, nil
	}
	return user, nil
}

// Logout deletes the session for a raw cookie token, if one exists
func (s *AuthService) Logout(ctx context.Context, token string) error {
	session, err := s.sessionRepo.FindByTokenHash(ctx, s.hashToken(token))
	if err != nil {
		return apperrors.Database(err)
	}
	if session == nil {
		return nil
	}
	return s.sessionRepo.Delete(ctx, session.ID)
}

func (s *AuthService) hashToken(token string) string {
	return util.HmacSHA256(s.sessionSecret, token)
}
