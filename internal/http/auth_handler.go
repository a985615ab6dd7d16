package http

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"login-signup/internal/domain"
	"login-signup/internal/oauth"
	"login-signup/internal/service"
)

// OAuthProvider es el contrato del cliente OAuth usado por los handlers.
type OAuthProvider interface {
	Name() string
	AuthCodeURL(state string) string
	Profile(ctx context.Context, code string) (oauth.Profile, error)
}

// AuthHandler maneja las rutas /api/auth.
type AuthHandler struct {
	logger   *zap.Logger
	authServ *service.AuthService
	sessions *service.SessionService
	google   OAuthProvider
	cookies  CookieConfig
}

// NewAuthHandler crea el handler; google puede ser nil si OAuth no esta configurado.
func NewAuthHandler(logger *zap.Logger, authServ *service.AuthService, sessions *service.SessionService, google OAuthProvider, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		authServ: authServ,
		sessions: sessions,
		google:   google,
		cookies:  cookies,
	}
}

// CredentialsCallback maneja POST /api/auth/callback/credentials.
func (h *AuthHandler) CredentialsCallback(c *gin.Context) {
	var req service.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid credentials request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	identity, err := h.authServ.Authorize(c.Request.Context(), req)
	if err != nil {
		logAuthFailure(h.logger, err, req.IsSignup())
		c.JSON(http.StatusUnauthorized, gin.H{
			"ok":    false,
			"error": service.UserMessage(err),
		})
		return
	}

	if err := h.startSession(c, domain.AuthUser{Identity: identity}, domain.ProviderCredentials); err != nil {
		h.logger.Error("session issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": service.MessageUnexpected})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "url": "/", "user": identity})
}

// Session maneja GET /api/auth/session. Sin sesion devuelve un objeto vacio.
func (h *AuthHandler) Session(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, session)
}

// SignOut maneja POST /api/auth/signout.
func (h *AuthHandler) SignOut(c *gin.Context) {
	if value, err := c.Cookie(sessionCookieName); err == nil && value != "" {
		if err := h.sessions.End(value); err != nil {
			h.logger.Debug("sign out with invalid session", zap.Error(err))
		}
	}
	h.cookies.clearSession(c)

	if wantsHTML(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": "/"})
}

// GoogleSignIn maneja GET /api/auth/signin/google.
func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	if h.google == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "provider not configured"})
		return
	}
	state := oauth.NewState()
	h.cookies.set(c, stateCookieName, state, stateCookieMaxAge)
	c.Redirect(http.StatusFound, h.google.AuthCodeURL(state))
}

// GoogleCallback maneja GET /api/auth/callback/google.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.google == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "provider not configured"})
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		h.logger.Warn("oauth provider returned error", zap.String("error", errParam))
		h.oauthFailed(c, "OAuthCallback")
		return
	}

	expected, err := c.Cookie(stateCookieName)
	state := c.Query("state")
	if err != nil || expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid state"})
		return
	}
	h.cookies.clear(c, stateCookieName)

	profile, err := h.google.Profile(c.Request.Context(), c.Query("code"))
	if err != nil {
		h.logger.Warn("oauth profile fetch failed", zap.Error(err))
		h.oauthFailed(c, "OAuthCallback")
		return
	}

	user, ok := h.authServ.SignIn(c.Request.Context(), service.OAuthProfile{
		Provider:      h.google.Name(),
		Email:         profile.Email,
		EmailVerified: profile.EmailVerified,
		Name:          profile.Name,
		Image:         profile.Picture,
	})
	if !ok {
		h.oauthFailed(c, "AccessDenied")
		return
	}

	if err := h.startSession(c, user, h.google.Name()); err != nil {
		h.logger.Error("session issue failed", zap.Error(err))
		h.oauthFailed(c, "OAuthCallback")
		return
	}
	h.cookies.setToast(c, Toast{Title: "Welcome!", Description: "Successfully signed in"})
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) oauthFailed(c *gin.Context, code string) {
	h.cookies.setToast(c, Toast{
		Title:       "Signin Failed",
		Description: "An error occurred while signing in with Google.",
		Variant:     toastDestructive,
	})
	c.Redirect(http.StatusFound, "/auth/signin?error="+code)
}

func (h *AuthHandler) startSession(c *gin.Context, user domain.AuthUser, provider string) error {
	return startSession(c, h.sessions, h.cookies, user, provider)
}

func startSession(c *gin.Context, sessions *service.SessionService, cookies CookieConfig, user domain.AuthUser, provider string) error {
	issued, err := sessions.Start(user, domain.Account{Provider: provider, Type: accountType(provider)})
	if err != nil {
		return err
	}
	cookies.setSession(c, issued.Value, sessions.TTLSeconds())
	return nil
}

func accountType(provider string) string {
	if provider == domain.ProviderCredentials {
		return "credentials"
	}
	return "oauth"
}

func logAuthFailure(logger *zap.Logger, err error, signup bool) {
	if service.IsRejection(err) {
		logger.Info("credentials rejected", zap.Bool("signup", signup), zap.String("reason", err.Error()))
		return
	}
	logger.Error("authorize failed", zap.Bool("signup", signup), zap.Error(err))
}

func wantsHTML(c *gin.Context) bool {
	ct := c.ContentType()
	if ct == "application/x-www-form-urlencoded" || ct == "multipart/form-data" {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}
