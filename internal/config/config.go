package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment
// variables, with a .env file as optional source.
type Config struct {
	DBPath           string
	OpenFoodFactsURL string
	HTTPTimeout      time.Duration

	GeminiAPIKey string
	GeminiModel  string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBPath:           getEnv("ECOSCAN_DB", "ecoscan.db"),
		OpenFoodFactsURL: getEnv("OFF_BASE_URL", ""),
		HTTPTimeout:      time.Duration(getEnvInt("HTTP_TIMEOUT_SEC", 20)) * time.Second,
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", ""),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}
