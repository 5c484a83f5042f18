package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DBPath          string
	FeedURL         string
	JWTSecret       string
	TokenTTL        time.Duration
	RefreshInterval time.Duration
	FetchTimeout    time.Duration
	CacheTTL        time.Duration
	DisableUpdates  bool
}

func Load() Config {
	// Optional .env file for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	return Config{
		Port:            getEnv("PORT", "8080"),
		DBPath:          getEnv("DB_PATH", "jobboard.db"),
		FeedURL:         getEnv("FEED_URL", "https://remotive.com"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:        getEnvDuration("TOKEN_TTL", time.Hour),
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 6*time.Hour),
		FetchTimeout:    getEnvDuration("FETCH_TIMEOUT", 15*time.Second),
		CacheTTL:        getEnvDuration("CACHE_TTL", 5*time.Minute),
		DisableUpdates:  getEnv("DISABLE_UPDATES", "") == "true",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
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
