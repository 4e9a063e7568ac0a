package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"habita/auth/internal/ids"
	"habita/auth/internal/models"
	"habita/auth/internal/policy"
	"habita/auth/internal/repository"
	"habita/auth/internal/security"
	"habita/auth/internal/session"
)

// UserService runs the directory operations behind the policy gate.
type UserService struct {
	users    UserStore
	sessions session.Store
	log      zerolog.Logger
}

func NewUserService(users UserStore, sessions session.Store, log zerolog.Logger) *UserService {
	return &UserService{
		users:    users,
		sessions: sessions,
		log:      log,
	}
}

func denied(d policy.Decision) error {
	return &PermissionError{Reason: d.Reason}
}

// Profile resolves a profile read. An empty target means the caller's
// own record.
func (s *UserService) Profile(ctx context.Context, caller policy.Caller, targetID string) (models.User, error) {
	if targetID == "" {
		targetID = caller.ID
	}

	if d := policy.CanViewProfile(caller); !d.Allowed {
		return models.User{}, denied(d)
	}

	return s.users.FindByID(ctx, targetID)
}

type MemberInput struct {
	Username string
	Email    string
	Password string
}

// RegisterMember creates an agente under a tenant. The effective
// tenant comes from the policy: owners are pinned to their own
// regardless of the requested one.
func (s *UserService) RegisterMember(ctx context.Context, caller policy.Caller, requestedInmobiliaria string, input MemberInput) error {
	effective, d := policy.MemberRegistration(caller, requestedInmobiliaria)
	if !d.Allowed {
		return denied(d)
	}

	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if !validEmail(input.Email) {
		return ErrInvalidEmail
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return err
	}

	user := models.User{
		ID:           ids.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         policy.MemberRole,
	}
	if effective != "" {
		user.InmobiliariaID = &effective
	}

	if err := s.users.Create(ctx, user); err != nil {
		return err
	}

	s.log.Info().
		Str("caller_id", caller.ID).
		Str("id_inmobiliaria", effective).
		Msg("member registered")
	return nil
}

// Delete removes a user record and revokes every session bound to it.
// An empty target means self-deletion.
func (s *UserService) Delete(ctx context.Context, caller policy.Caller, targetID string) error {
	if targetID == "" {
		targetID = caller.ID
	}

	if d := policy.CanDeleteUser(caller, targetID); !d.Allowed {
		return denied(d)
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}

	if err := s.sessions.ClearUser(ctx, targetID); err != nil {
		s.log.Warn().Err(err).Str("user_id", targetID).Msg("session revocation failed")
	}
	return nil
}

type UpdateInput struct {
	Username       *string
	Email          *string
	Password       *string
	Role           *models.Role
	InmobiliariaID *string
}

// Update applies a partial update after the policy has filtered it. A
// password change revokes the target's sessions, forcing a re-login.
func (s *UserService) Update(ctx context.Context, caller policy.Caller, targetID string, input UpdateInput) error {
	if targetID == "" {
		targetID = caller.ID
	}

	upd := repository.UserUpdate{
		Username:       input.Username,
		Email:          input.Email,
		Role:           input.Role,
		InmobiliariaID: input.InmobiliariaID,
	}
	if input.Password != nil {
		passwordHash, err := security.HashPassword(*input.Password)
		if err != nil {
			return err
		}
		upd.PasswordHash = passwordHash
	}

	upd, d := policy.FilterUpdate(caller, targetID, upd)
	if !d.Allowed {
		return denied(d)
	}

	if input.Email != nil {
		normalized := strings.TrimSpace(strings.ToLower(*input.Email))
		if !validEmail(normalized) {
			return ErrInvalidEmail
		}
		upd.Email = &normalized
	}

	if err := s.users.Update(ctx, targetID, upd); err != nil {
		return err
	}

	if upd.PasswordHash != nil {
		if err := s.sessions.ClearUser(ctx, targetID); err != nil {
			s.log.Warn().Err(err).Str("user_id", targetID).Msg("session revocation failed")
		}
	}
	return nil
}

// ListAll returns every record in the directory. Admin-only.
func (s *UserService) ListAll(ctx context.Context, caller policy.Caller) ([]models.User, error) {
	if d := policy.CanListAllUsers(caller); !d.Allowed {
		return nil, denied(d)
	}
	return s.users.ListAll(ctx)
}

// ListByInmobiliaria returns a tenant's members, scoped by the policy.
func (s *UserService) ListByInmobiliaria(ctx context.Context, caller policy.Caller, requested string) ([]models.User, error) {
	effective, d := policy.InmobiliariaListScope(caller, requested)
	if !d.Allowed {
		return nil, denied(d)
	}
	return s.users.ListByInmobiliaria(ctx, effective)
}
