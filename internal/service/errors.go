package service

import (
	"errors"

	"login-signup/internal/validation"
)

var (
	ErrCredentialsRequired = errors.New("email and password required")
	ErrEmailInUse          = errors.New("email already in use")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrRateLimited         = errors.New("rate limited")
	ErrNotConfigured       = errors.New("auth service not configured")
)

// MessageUnexpected es el texto que se muestra para cualquier error no clasificado.
const MessageUnexpected = "An unexpected error occurred. Please try again later."

// UserMessage traduce un error del flujo de autenticacion al texto que ve el usuario.
func UserMessage(err error) string {
	var verr *validation.ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, ErrCredentialsRequired):
		return "Email and password are required."
	case errors.Is(err, ErrEmailInUse):
		return "Email already in use."
	case errors.Is(err, ErrUserNotFound):
		return "No user found. Please sign up first."
	case errors.Is(err, ErrInvalidPassword):
		return "Invalid password."
	case errors.Is(err, ErrRateLimited):
		return "Too many attempts. Please try again later."
	default:
		return MessageUnexpected
	}
}

// IsRejection indica si el error es un rechazo esperado (no un fallo interno).
func IsRejection(err error) bool {
	var verr *validation.ValidationError
	return errors.As(err, &verr) ||
		errors.Is(err, ErrCredentialsRequired) ||
		errors.Is(err, ErrEmailInUse) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrInvalidPassword) ||
		errors.Is(err, ErrRateLimited)
}
