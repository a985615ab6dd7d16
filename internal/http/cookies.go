package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName = "session_token"
	stateCookieName   = "oauth_state"
	toastCookieName   = "toast"

	stateCookieMaxAge = 10 * 60
	toastCookieMaxAge = 60
)

// CookieConfig agrupa los atributos comunes de las cookies.
type CookieConfig struct {
	Secure bool
}

func (cfg CookieConfig) set(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (cfg CookieConfig) clear(c *gin.Context, name string) {
	cfg.set(c, name, "", -1)
}

func (cfg CookieConfig) setSession(c *gin.Context, token string, maxAge int) {
	cfg.set(c, sessionCookieName, token, maxAge)
}

func (cfg CookieConfig) clearSession(c *gin.Context) {
	cfg.clear(c, sessionCookieName)
}

// Toast es la notificacion transitoria que se muestra en las paginas.
type Toast struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant,omitempty"`
}

const toastDestructive = "destructive"

// setToast guarda el toast para la proxima pagina que se renderice.
func (cfg CookieConfig) setToast(c *gin.Context, toast Toast) {
	raw, err := json.Marshal(toast)
	if err != nil {
		return
	}
	cfg.set(c, toastCookieName, base64.RawURLEncoding.EncodeToString(raw), toastCookieMaxAge)
}

func hasToast(c *gin.Context) bool {
	v, err := c.Cookie(toastCookieName)
	return err == nil && v != ""
}

// popToast lee y borra el toast pendiente.
func (cfg CookieConfig) popToast(c *gin.Context) *Toast {
	v, err := c.Cookie(toastCookieName)
	if err != nil || v == "" {
		return nil
	}
	cfg.clear(c, toastCookieName)
	raw, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil {
		return nil
	}
	var toast Toast
	if err := json.Unmarshal(raw, &toast); err != nil {
		return nil
	}
	return &toast
}
