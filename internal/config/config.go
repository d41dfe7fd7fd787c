package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	RedisURL       string
	EventChannel   string
	LogLevel       string
	LogFormat      string
	HealthInterval time.Duration
}

func Load() (*Config, error) {
	// A missing .env file is fine in production
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:       getEnv("APP_ENV", "development"),
		Port:         getEnv("PORT", "8002"),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379"),
		EventChannel: getEnv("EVENT_CHANNEL", "jogo_velha_events"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
	}

	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}
	if cfg.EventChannel == "" {
		return nil, fmt.Errorf("EVENT_CHANNEL must not be empty")
	}

	interval, err := time.ParseDuration(getEnv("HEALTH_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("HEALTH_INTERVAL must be a valid duration: %w", err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("HEALTH_INTERVAL must be positive")
	}
	cfg.HealthInterval = interval

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
