package domain

import "time"

// Account describe el proveedor con el que se autentico el usuario.
type Account struct {
	Provider string `json:"provider"`
	Type     string `json:"type"`
}

// Providers conocidos.
const (
	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
)

// AuthUser es el usuario que entrega un proveedor al callback de token.
// Image solo lo completa OAuth.
type AuthUser struct {
	Identity
	Image string
}

// Token contiene la identidad copiada dentro del token firmado.
type Token struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// SessionUser es la vista publica del usuario en la sesion.
type SessionUser struct {
	ID     string `json:"id,omitempty"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// Session es el objeto que se expone a las paginas y a /api/auth/session.
type Session struct {
	User    SessionUser `json:"user"`
	Expires time.Time   `json:"expires"`
}
