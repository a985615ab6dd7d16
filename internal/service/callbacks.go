package service

import "login-signup/internal/domain"

// JWTCallback copia la identidad resuelta dentro del token en la primera
// autenticacion. Sin usuario el token no cambia.
func JWTCallback(token domain.Token, user *domain.AuthUser, account *domain.Account) domain.Token {
	if user == nil {
		return token
	}
	token.ID = user.ID
	token.Email = user.Email
	token.Name = user.Name
	switch {
	case user.Avatar != "":
		token.Avatar = user.Avatar
	case account != nil && account.Provider == domain.ProviderGoogle && user.Image != "":
		token.Avatar = user.Image
	default:
		token.Avatar = domain.PlaceholderAvatar
	}
	return token
}

// SessionCallback expone los campos del token en el objeto de sesion.
func SessionCallback(session domain.Session, token *domain.Token) domain.Session {
	if token == nil {
		return session
	}
	session.User.ID = token.ID
	session.User.Email = token.Email
	session.User.Name = token.Name
	session.User.Avatar = token.Avatar
	return session
}
