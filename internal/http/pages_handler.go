package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"login-signup/internal/domain"
	"login-signup/internal/service"
	"login-signup/internal/validation"
)

// PageHandler renderiza las paginas de acceso, registro e inicio.
type PageHandler struct {
	logger        *zap.Logger
	authServ      *service.AuthService
	sessions      *service.SessionService
	cookies       CookieConfig
	googleEnabled bool
}

func NewPageHandler(logger *zap.Logger, authServ *service.AuthService, sessions *service.SessionService, cookies CookieConfig, googleEnabled bool) *PageHandler {
	return &PageHandler{
		logger:        logger,
		authServ:      authServ,
		sessions:      sessions,
		cookies:       cookies,
		googleEnabled: googleEnabled,
	}
}

type pageData struct {
	Title         string
	Session       *domain.Session
	Toast         *Toast
	Email         string
	Errors        map[string]string
	GoogleEnabled bool
}

func (h *PageHandler) page(c *gin.Context, title string) pageData {
	data := pageData{
		Title:         title,
		Toast:         h.cookies.popToast(c),
		Errors:        map[string]string{},
		GoogleEnabled: h.googleEnabled,
	}
	if session, ok := GetSession(c); ok {
		data.Session = &session
	}
	return data
}

// Home maneja GET /.
func (h *PageHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", h.page(c, "Login Signup Prod"))
}

// SignInPage maneja GET /auth/signin.
func (h *PageHandler) SignInPage(c *gin.Context) {
	if _, ok := GetSession(c); ok {
		if !hasToast(c) {
			h.cookies.setToast(c, Toast{Title: "Welcome!", Description: "Successfully signed in"})
		}
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "signin.html", h.page(c, "Sign In"))
}

// SignIn maneja POST /auth/signin.
func (h *PageHandler) SignIn(c *gin.Context) {
	data := h.page(c, "Sign In")
	var form validation.SignInInput
	if err := c.ShouldBind(&form); err != nil {
		h.logger.Warn("invalid signin form", zap.Error(err))
	}
	form.Email = strings.ToLower(strings.TrimSpace(form.Email))
	data.Email = form.Email

	if err := validation.ValidateSignIn(form); err != nil {
		h.renderInvalid(c, "signin.html", data, err)
		return
	}

	identity, err := h.authServ.Authorize(c.Request.Context(), service.Credentials{
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		logAuthFailure(h.logger, err, false)
		data.Toast = &Toast{Title: "Signin Failed", Description: service.UserMessage(err), Variant: toastDestructive}
		c.HTML(http.StatusUnprocessableEntity, "signin.html", data)
		return
	}

	if err := startSession(c, h.sessions, h.cookies, domain.AuthUser{Identity: identity}, domain.ProviderCredentials); err != nil {
		h.logger.Error("session issue failed", zap.Error(err))
		data.Toast = &Toast{Title: "Signin Failed", Description: service.MessageUnexpected, Variant: toastDestructive}
		c.HTML(http.StatusInternalServerError, "signin.html", data)
		return
	}
	h.cookies.setToast(c, Toast{Title: "Welcome!", Description: "Successfully signed in"})
	c.Redirect(http.StatusSeeOther, "/")
}

// SignUpPage maneja GET /auth/signup.
func (h *PageHandler) SignUpPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", h.page(c, "Signup"))
}

// SignUp maneja POST /auth/signup.
func (h *PageHandler) SignUp(c *gin.Context) {
	data := h.page(c, "Signup")
	var form validation.SignUpInput
	if err := c.ShouldBind(&form); err != nil {
		h.logger.Warn("invalid signup form", zap.Error(err))
	}
	form.Email = strings.ToLower(strings.TrimSpace(form.Email))
	data.Email = form.Email

	if err := validation.ValidateSignUp(form); err != nil {
		h.renderInvalid(c, "signup.html", data, err)
		return
	}

	identity, err := h.authServ.Authorize(c.Request.Context(), service.Credentials{
		Email:           form.Email,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
	})
	if err != nil {
		logAuthFailure(h.logger, err, true)
		data.Toast = &Toast{Title: "Signup Failed", Description: service.UserMessage(err), Variant: toastDestructive}
		c.HTML(http.StatusUnprocessableEntity, "signup.html", data)
		return
	}

	if err := startSession(c, h.sessions, h.cookies, domain.AuthUser{Identity: identity}, domain.ProviderCredentials); err != nil {
		h.logger.Error("session issue failed", zap.Error(err))
		data.Toast = &Toast{Title: "Signup Failed", Description: service.MessageUnexpected, Variant: toastDestructive}
		c.HTML(http.StatusInternalServerError, "signup.html", data)
		return
	}
	h.cookies.setToast(c, Toast{Title: "Signup Successful", Description: "Your account has been created."})
	c.Redirect(http.StatusSeeOther, "/auth/signin")
}

func (h *PageHandler) renderInvalid(c *gin.Context, name string, data pageData, err error) {
	var verr *validation.ValidationError
	if !errors.As(err, &verr) {
		h.logger.Error("validate form failed", zap.Error(err))
		data.Toast = &Toast{Title: "Error", Description: service.MessageUnexpected, Variant: toastDestructive}
		c.HTML(http.StatusInternalServerError, name, data)
		return
	}
	for _, f := range verr.Fields {
		data.Errors[f.Field] = f.Message
	}
	c.HTML(http.StatusUnprocessableEntity, name, data)
}
