package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"habita/auth/internal/ids"
	"habita/auth/internal/models"
	"habita/auth/internal/repository"
	"habita/auth/internal/security"
	"habita/auth/internal/session"
)

// dummyHash absorbs a password verification when the email is unknown,
// so a login miss costs the same as a wrong password.
var dummyHash, _ = security.HashPassword("not-a-real-password")

type AuthService struct {
	users    UserStore
	sessions session.Store
	codec    *security.TokenCodec
	log      zerolog.Logger
}

func NewAuthService(users UserStore, sessions session.Store, codec *security.TokenCodec, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		codec:    codec,
		log:      log,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     models.Role
}

// Register creates a self-service account with no tenant. Uniqueness
// is enforced by the store; a duplicate surfaces as
// repository.ErrDuplicateUser.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) error {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if !validEmail(input.Email) {
		return ErrInvalidEmail
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return err
	}

	return s.users.Create(ctx, models.User{
		ID:           ids.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         input.Role,
	})
}

type LoginResult struct {
	SessionID string
	Token     string
	Claims    *security.Claims
}

// Login authenticates by email and binds a fresh session on success.
// Unknown email and wrong password collapse into one outcome and
// neither creates a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			security.VerifyPassword(password, dummyHash)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if !security.VerifyPassword(password, user.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user)
	if err != nil {
		return LoginResult{}, err
	}

	claims, err := s.codec.Decode(token)
	if err != nil {
		return LoginResult{}, err
	}

	sessionID := ids.NewSession()
	if err := s.sessions.Bind(ctx, sessionID, user.ID, token); err != nil {
		return LoginResult{}, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("login")

	return LoginResult{
		SessionID: sessionID,
		Token:     token,
		Claims:    claims,
	}, nil
}

// Logout clears the session binding unconditionally.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	s.log.Info().Str("session_id", sessionID).Msg("logout")
	return s.sessions.Clear(ctx, sessionID)
}
