package http

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"login-signup/internal/service"
)

// HealthCheck verifica las dependencias externas del servicio.
type HealthCheck func(ctx context.Context) error

// NewRouter configura el router de Gin con middlewares, paginas y rutas de auth.
func NewRouter(
	logger *zap.Logger,
	pages *template.Template,
	sessions *service.SessionService,
	cookies CookieConfig,
	authH *AuthHandler,
	pageH *PageHandler,
	health HealthCheck,
) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(pages)

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), SessionMiddleware(sessions, cookies))

	r.StaticFileFS("/placeholder-avatar.png", "placeholder-avatar.png", http.FS(staticFiles()))
	r.GET("/healthz", healthHandler(logger, health))

	r.GET("/", pageH.Home)
	pagesGroup := r.Group("/auth")
	pagesGroup.GET("/signin", pageH.SignInPage)
	pagesGroup.POST("/signin", pageH.SignIn)
	pagesGroup.GET("/signup", pageH.SignUpPage)
	pagesGroup.POST("/signup", pageH.SignUp)

	api := r.Group("/api/auth")
	api.GET("/signin/google", authH.GoogleSignIn)
	api.GET("/callback/google", authH.GoogleCallback)
	api.POST("/signout", authH.SignOut)

	jsonAPI := api.Group("", jsonContentTypeMiddleware())
	jsonAPI.POST("/callback/credentials", authH.CredentialsCallback)
	jsonAPI.GET("/session", authH.Session)

	return r
}

func healthHandler(logger *zap.Logger, health HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		if health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := health(ctx); err != nil {
				logger.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
