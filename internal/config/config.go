package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	DataDir           string
	LowStockThreshold int
	CriticalThreshold int
	UsageWindowDays   int
}

// Load reads configuration from the environment, with .env as an optional
// overlay. Every key has a working default so the zero-config case runs.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env file not found, using environment only")
	}

	return Config{
		Port:              getEnv("PORT", "3000"),
		DataDir:           getEnv("DATA_DIR", "data"),
		LowStockThreshold: getEnvInt("LOW_STOCK_THRESHOLD", 5),
		CriticalThreshold: getEnvInt("CRITICAL_STOCK_THRESHOLD", 2),
		UsageWindowDays:   getEnvInt("USAGE_WINDOW_DAYS", 30),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
		return fallback
	}
	return n
}
