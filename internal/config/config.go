package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// DevJWTSecret is the fallback signing secret. It exists so a fresh
// checkout boots without any env setup; operators MUST override it.
const DevJWTSecret = "raymarket-dev-secret-do-not-ship"

const defaultDSN = "host=localhost user=postgres password=postgres dbname=raymarket port=5432 sslmode=disable"

type Config struct {
	HTTPPort       string
	DatabaseDSN    string
	JWTSecret      string
	CORSOrigins    string
	RedisAddr      string // empty disables realtime publish
	BootstrapAdmin bool   // allow the bootstrap admin login shortcut
}

func Load() *Config {
	// .env is optional, real env vars win
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:    getEnv("DATABASE_DSN", defaultDSN),
		JWTSecret:      getEnv("JWT_SECRET", DevJWTSecret),
		CORSOrigins:    getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		BootstrapAdmin: getEnv("BOOTSTRAP_ADMIN", "true") == "true",
	}

	if cfg.JWTSecret == DevJWTSecret {
		log.Println("[WARN] JWT_SECRET is not set, falling back to the built-in development secret. Set JWT_SECRET before deploying.")
	}
	if cfg.DatabaseDSN == defaultDSN {
		log.Println("[WARN] DATABASE_DSN is using the default local value, set your own Postgres connection for production.")
	}
	if cfg.BootstrapAdmin {
		log.Println("[WARN] Bootstrap admin login is enabled (BOOTSTRAP_ADMIN=true). Disable it once a real admin account exists.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
