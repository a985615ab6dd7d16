package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"login-signup/internal/domain"
	"login-signup/internal/repository"
	"login-signup/internal/validation"
)

// AuthService resuelve las credenciales enviadas por las paginas de acceso y
// registro y vincula las cuentas OAuth.
type AuthService struct {
	logger  *zap.Logger
	users   repository.UserRepository
	hasher  PasswordHasher
	limiter AttemptLimiter
	now     func() time.Time
}

func NewAuthService(logger *zap.Logger, users repository.UserRepository, hasher PasswordHasher, limiter AttemptLimiter) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hasher == nil {
		hasher = NewBcryptHasher(DefaultBcryptCost)
	}
	if limiter == nil {
		limiter = NewMemoryAttemptLimiter(10*time.Minute, 10)
	}
	return &AuthService{
		logger:  logger,
		users:   users,
		hasher:  hasher,
		limiter: limiter,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Credentials son los campos del proveedor de credenciales. ConfirmPassword
// solo lo envia el formulario de registro.
type Credentials struct {
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

// IsSignup indica si las credenciales corresponden al registro.
func (c Credentials) IsSignup() bool {
	return c.ConfirmPassword != ""
}

// Authorize registra o autentica segun las credenciales y devuelve la identidad.
func (s *AuthService) Authorize(ctx context.Context, creds Credentials) (domain.Identity, error) {
	if s == nil || s.users == nil {
		return domain.Identity{}, ErrNotConfigured
	}

	email := normalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return domain.Identity{}, ErrCredentialsRequired
	}
	if !s.limiter.Allow(email) {
		return domain.Identity{}, ErrRateLimited
	}

	var (
		identity domain.Identity
		err      error
	)
	if creds.IsSignup() {
		identity, err = s.signup(ctx, email, creds)
	} else {
		identity, err = s.login(ctx, email, creds)
	}
	switch {
	case err == nil:
		s.limiter.Reset(email)
	case countsAsFailure(err):
		s.limiter.Fail(email)
	}
	return identity, err
}

// countsAsFailure indica si el error consume un intento del limitador.
func countsAsFailure(err error) bool {
	var verr *validation.ValidationError
	return errors.As(err, &verr) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrInvalidPassword)
}

func (s *AuthService) signup(ctx context.Context, email string, creds Credentials) (domain.Identity, error) {
	if err := validation.ValidateSignUp(validation.SignUpInput{
		Email:           email,
		Password:        creds.Password,
		ConfirmPassword: creds.ConfirmPassword,
	}); err != nil {
		return domain.Identity{}, err
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return domain.Identity{}, ErrEmailInUse
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Identity{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(creds.Password)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  &hash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return domain.Identity{}, ErrEmailInUse
		}
		return domain.Identity{}, err
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID))
	return user.Identity(), nil
}

func (s *AuthService) login(ctx context.Context, email string, creds Credentials) (domain.Identity, error) {
	if err := validation.ValidateSignIn(validation.SignInInput{
		Email:    email,
		Password: creds.Password,
	}); err != nil {
		return domain.Identity{}, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Identity{}, ErrUserNotFound
		}
		return domain.Identity{}, fmt.Errorf("lookup user: %w", err)
	}

	// Las cuentas creadas por OAuth no tienen contraseña.
	if !user.HasPassword() {
		return domain.Identity{}, ErrInvalidPassword
	}
	ok, err := s.hasher.Compare(*user.Password, creds.Password)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return domain.Identity{}, ErrInvalidPassword
	}
	return user.Identity(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
