package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"login-signup/internal/config"
	"login-signup/internal/db"
	apihttp "login-signup/internal/http"
	"login-signup/internal/oauth"
	"login-signup/internal/repository"
	"login-signup/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("db schema", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)

	var (
		sessionStore service.SessionStore
		limiter      service.AttemptLimiter
		redisClient  *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
			_ = redisClient.Close()
			redisClient = nil
		} else {
			sessionStore = service.NewRedisSessionStore(redisClient)
			limiter = service.NewRedisAttemptLimiter(redisClient, cfg.AttemptWindow, cfg.AttemptMax)
		}
		cancel()
	}
	if sessionStore == nil {
		sessionStore = service.NewMemorySessionStore()
	}
	if limiter == nil {
		limiter = service.NewMemoryAttemptLimiter(cfg.AttemptWindow, cfg.AttemptMax)
	}

	tokenSvc := service.NewTokenService(cfg.SessionSecret, cfg.SessionTTL, sessionStore)
	sessionSvc := service.NewSessionService(tokenSvc)
	authSvc := service.NewAuthService(logger, userRepo, service.NewBcryptHasher(service.DefaultBcryptCost), limiter)

	var google apihttp.OAuthProvider
	if cfg.GoogleEnabled() {
		google = oauth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL())
	} else {
		logger.Warn("google oauth not configured")
	}

	pages, err := apihttp.LoadTemplates()
	if err != nil {
		logger.Fatal("load templates", zap.Error(err))
	}

	cookies := apihttp.CookieConfig{Secure: cfg.CookieSecure}
	authHandler := apihttp.NewAuthHandler(logger, authSvc, sessionSvc, google, cookies)
	pageHandler := apihttp.NewPageHandler(logger, authSvc, sessionSvc, cookies, google != nil)
	router := apihttp.NewRouter(logger, pages, sessionSvc, cookies, authHandler, pageHandler, func(ctx context.Context) error {
		if err := db.Ping(ctx, pool); err != nil {
			return err
		}
		if redisClient != nil {
			return redisClient.Ping(ctx).Err()
		}
		return nil
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
