package service

import (
	"login-signup/internal/domain"
)

// SessionService encadena los callbacks de token y sesion con la firma del token.
type SessionService struct {
	tokens *TokenService
}

func NewSessionService(tokens *TokenService) *SessionService {
	return &SessionService{tokens: tokens}
}

// Start emite un token nuevo para el usuario autenticado.
func (s *SessionService) Start(user domain.AuthUser, account domain.Account) (IssuedToken, error) {
	if s == nil || s.tokens == nil {
		return IssuedToken{}, ErrNotConfigured
	}
	token := JWTCallback(domain.Token{}, &user, &account)
	return s.tokens.Issue(token)
}

// Read devuelve la sesion del token de la cookie.
func (s *SessionService) Read(value string) (domain.Session, error) {
	if s == nil || s.tokens == nil {
		return domain.Session{}, ErrNotConfigured
	}
	claims, err := s.tokens.Parse(value)
	if err != nil {
		return domain.Session{}, err
	}
	token := claims.Token()
	session := domain.Session{}
	if claims.ExpiresAt != nil {
		session.Expires = claims.ExpiresAt.Time.UTC()
	}
	return SessionCallback(session, &token), nil
}

// End revoca el token.
func (s *SessionService) End(value string) error {
	if s == nil || s.tokens == nil {
		return ErrNotConfigured
	}
	return s.tokens.Revoke(value)
}

// TTLSeconds es la vida del token, usada como Max-Age de la cookie.
func (s *SessionService) TTLSeconds() int {
	if s == nil || s.tokens == nil {
		return 0
	}
	return int(s.tokens.TTL().Seconds())
}
