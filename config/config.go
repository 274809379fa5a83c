// config/config.go
package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Config carries everything main needs to wire the application.
type Config struct {
	Port        string
	DatabaseURL string
	RedisAddr   string
	JWTSecret   string
	AuditLogDir string
}

// Load reads .env (when present) and the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("Arquivo .env não encontrado, usando variáveis de ambiente")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DB_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		AuditLogDir: getEnv("AUDIT_LOG_DIR", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
