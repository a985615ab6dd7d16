package http

import (
	"github.com/gin-gonic/gin"

	"login-signup/internal/domain"
	"login-signup/internal/service"
)

const sessionKey = "auth_session"

// SessionMiddleware lee la cookie de sesion y guarda la sesion en el contexto.
// Una cookie invalida o revocada se borra y la peticion sigue como anonima.
func SessionMiddleware(sessions *service.SessionService, cookies CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, err := c.Cookie(sessionCookieName)
		if err != nil || value == "" || sessions == nil {
			c.Next()
			return
		}

		session, err := sessions.Read(value)
		if err != nil {
			cookies.clearSession(c)
			c.Next()
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// GetSession obtiene la sesion desde el contexto.
func GetSession(c *gin.Context) (domain.Session, bool) {
	val, ok := c.Get(sessionKey)
	if !ok {
		return domain.Session{}, false
	}
	session, ok := val.(domain.Session)
	return session, ok
}
