package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	RedisAddr     string
	RedisPassword string

	DatabaseDSN string

	// SessionInactivityTimeout is how long a session survives without
	// activity. Each successful resolve pushes the expiry forward.
	SessionInactivityTimeout time.Duration
}

func Load() Config {

	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{

		AppPort: getenv("APP_PORT", "3000"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		SessionInactivityTimeout: getduration("SESSION_INACTIVITY_TIMEOUT", 24*time.Hour),
	}

	return cfg

}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
