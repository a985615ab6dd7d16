package domain

import "time"

// PlaceholderAvatar es el avatar que se muestra cuando el usuario no tiene uno.
const PlaceholderAvatar = "/placeholder-avatar.png"

// User es la fila persistida de un usuario. Password y Avatar son nil para cuentas
// creadas por OAuth o sin imagen.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  *string   `json:"-"`
	Name      *string   `json:"name,omitempty"`
	Avatar    *string   `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity es el registro minimo de un usuario autenticado.
type Identity struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// Identity reduce el usuario a los campos que viajan en la sesion.
func (u User) Identity() Identity {
	return Identity{
		ID:     u.ID,
		Email:  u.Email,
		Name:   deref(u.Name),
		Avatar: deref(u.Avatar),
	}
}

// HasPassword indica si la cuenta admite login con credenciales.
func (u User) HasPassword() bool {
	return u.Password != nil && *u.Password != ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
