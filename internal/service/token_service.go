package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"login-signup/internal/domain"
)

const tokenIssuer = "login-signup"

// TokenService firma y valida los tokens de sesion (JWT HS256).
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	store  SessionStore
	now    func() time.Time
}

// IssuedToken es un token firmado junto con su expiracion.
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// Claims son los campos del token de sesion.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	jwt.RegisteredClaims
}

// Token devuelve la identidad contenida en los claims.
func (c Claims) Token() domain.Token {
	return domain.Token{
		ID:     c.UserID,
		Email:  c.Email,
		Name:   c.Name,
		Avatar: c.Avatar,
	}
}

var (
	ErrTokenInvalid = errors.New("session token invalid")
	ErrTokenExpired = errors.New("session token expired")
)

func NewTokenService(secret string, ttl time.Duration, store SessionStore) *TokenService {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	if store == nil {
		store = NewMemorySessionStore()
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: tokenIssuer,
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue firma un token nuevo para la identidad y registra su jti.
func (s *TokenService) Issue(token domain.Token) (IssuedToken, error) {
	if len(s.secret) == 0 || strings.TrimSpace(token.ID) == "" {
		return IssuedToken{}, ErrTokenInvalid
	}
	now := s.now()
	expiresAt := now.Add(s.ttl)
	jti := uuid.NewString()
	claims := Claims{
		UserID: token.ID,
		Email:  token.Email,
		Name:   token.Name,
		Avatar: token.Avatar,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.issuer,
			Subject:   token.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return IssuedToken{}, err
	}
	if err := s.store.Store(jti, token.ID, s.ttl); err != nil {
		return IssuedToken{}, err
	}
	return IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// Parse valida firma, emisor y expiracion, y que la sesion no haya sido cerrada.
func (s *TokenService) Parse(value string) (Claims, error) {
	claims, err := s.verify(value)
	if err != nil {
		return Claims{}, err
	}
	ok, err := s.store.Exists(claims.ID)
	if err != nil || !ok {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}

// Revoke invalida el token; los tokens ya invalidos se ignoran.
func (s *TokenService) Revoke(value string) error {
	claims, err := s.verify(value)
	if err != nil {
		return err
	}
	return s.store.Revoke(claims.ID)
}

func (s *TokenService) verify(value string) (Claims, error) {
	if len(s.secret) == 0 || strings.TrimSpace(value) == "" {
		return Claims{}, ErrTokenInvalid
	}
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(value, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if !s.isValidClaims(claims) {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}

func (s *TokenService) isValidClaims(claims Claims) bool {
	if strings.TrimSpace(claims.UserID) == "" || claims.Subject != claims.UserID {
		return false
	}
	if strings.TrimSpace(claims.ID) == "" {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == s.issuer
}
