package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort           string        `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL        string        `env:"DATABASE_URL,required"`
	SessionSecret      string        `env:"NEXTAUTH_SECRET,required,notEmpty"`
	BaseURL            string        `env:"NEXTAUTH_URL" envDefault:"http://localhost:8080"`
	GoogleClientID     string        `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string        `env:"GOOGLE_CLIENT_SECRET"`
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	CookieSecure       bool          `env:"COOKIE_SECURE" envDefault:"false"`
	RedisAddr          string        `env:"REDIS_ADDR"`
	RedisPassword      string        `env:"REDIS_PASSWORD"`
	RedisDB            int           `env:"REDIS_DB" envDefault:"0"`
	AttemptWindow      time.Duration `env:"AUTH_ATTEMPT_WINDOW" envDefault:"10m"`
	AttemptMax         int           `env:"AUTH_ATTEMPT_MAX" envDefault:"10"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	return &cfg, nil
}

// GoogleEnabled indica si hay credenciales de Google configuradas.
func (c *Config) GoogleEnabled() bool {
	return strings.TrimSpace(c.GoogleClientID) != "" && strings.TrimSpace(c.GoogleClientSecret) != ""
}

// GoogleRedirectURL devuelve la URL de callback registrada en Google.
func (c *Config) GoogleRedirectURL() string {
	return c.BaseURL + "/api/auth/callback/google"
}
