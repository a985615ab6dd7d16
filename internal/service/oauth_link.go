package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"login-signup/internal/domain"
	"login-signup/internal/repository"
)

// OAuthProfile son los datos de perfil que entrega el proveedor.
type OAuthProfile struct {
	Provider      string
	Email         string
	EmailVerified bool
	Name          string
	Image         string
}

// SignIn vincula el perfil OAuth con un usuario local, creandolo si no existe.
// Devuelve false cuando el acceso debe denegarse; la causa queda en el log.
func (s *AuthService) SignIn(ctx context.Context, profile OAuthProfile) (domain.AuthUser, bool) {
	if s == nil || s.users == nil {
		return domain.AuthUser{}, false
	}
	user, err := s.linkAccount(ctx, profile)
	if err != nil {
		s.logger.Error("oauth sign in failed",
			zap.Error(err),
			zap.String("provider", profile.Provider),
		)
		return domain.AuthUser{}, false
	}
	return domain.AuthUser{
		Identity: user.Identity(),
		Image:    strings.TrimSpace(profile.Image),
	}, true
}

var (
	errProfileWithoutEmail = errors.New("oauth profile without email")
	errEmailNotVerified    = errors.New("oauth email not verified")
)

func (s *AuthService) linkAccount(ctx context.Context, profile OAuthProfile) (domain.User, error) {
	email := normalizeEmail(profile.Email)
	if email == "" {
		return domain.User{}, errProfileWithoutEmail
	}
	// Solo se vinculan emails verificados por el proveedor.
	if !profile.EmailVerified {
		return domain.User{}, errEmailNotVerified
	}
	name := optional(profile.Name)
	avatar := optional(profile.Image)

	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if name == nil {
			name = existing.Name
		}
		if avatar == nil {
			avatar = existing.Avatar
		}
		if err := s.users.UpdateProfile(ctx, existing.ID, name, avatar); err != nil {
			return domain.User{}, err
		}
		existing.Name = name
		existing.Avatar = avatar
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	now := s.now()
	user := domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		Avatar:    avatar,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if !errors.Is(err, repository.ErrEmailTaken) {
			return domain.User{}, err
		}
		// Otro request creo la fila entre la lectura y el insert.
		return s.users.GetByEmail(ctx, email)
	}
	s.logger.Info("user created from oauth", zap.String("user_id", user.ID), zap.String("provider", profile.Provider))
	return user, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
