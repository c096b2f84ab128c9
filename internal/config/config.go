package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	APIBaseURL     string
	ViaCepBaseURL  string
	GoogleLoginURL string
	AllowedOrigin  string
	RedisAddr      string
	SessionCookie  string
	SessionTTL     time.Duration
	OTLPEndpoint   string
}

func Load() *Config {
	// Best effort; deployments set real env vars.
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("HTTP_PORT", "8080"),
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8081"),
		ViaCepBaseURL:  getEnv("VIACEP_BASE_URL", "https://viacep.com.br"),
		GoogleLoginURL: os.Getenv("GOOGLE_LOGIN_URL"),
		AllowedOrigin:  getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		SessionCookie:  getEnv("SESSION_COOKIE", "eventmanager_session"),
		SessionTTL:     getDuration("SESSION_TTL", 24*time.Hour),
		OTLPEndpoint:   os.Getenv("OTLP_ENDPOINT"),
	}
}

// LoginURL is where the browser is sent to start the OAuth round trip.
// The backend owns the Google authorization endpoint; GOOGLE_LOGIN_URL
// overrides it for local setups.
func (c *Config) LoginURL() string {
	if c.GoogleLoginURL != "" {
		return c.GoogleLoginURL
	}
	return c.APIBaseURL + "/oauth2/authorization/google"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
