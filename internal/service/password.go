package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashea y verifica contraseñas.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

// BcryptHasher implementa PasswordHasher con bcrypt.
type BcryptHasher struct {
	cost int
}

// DefaultBcryptCost coincide con el coste usado al crear las cuentas existentes.
const DefaultBcryptCost = 10

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// Compare devuelve false sin error cuando la contraseña no coincide.
func (h *BcryptHasher) Compare(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
