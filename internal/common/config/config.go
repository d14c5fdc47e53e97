package config

import (
	"os"
	"strconv"
	"strings"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int
	BodyLimitMB  int

	CanvasHeight float64
	PointBudget  int
	ChunkSize    int

	DBPath         string
	MigrationsPath string
	StorageRoot    string
	InboxDir       string
	AllowedOrigins []string
}

// Load reads the configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3001"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 30),
		BodyLimitMB:  getEnvAsInt("BODY_LIMIT_MB", 50),

		CanvasHeight: getEnvAsFloat("CANVAS_HEIGHT", 1000),
		PointBudget:  getEnvAsInt("POINT_BUDGET", 30000),
		ChunkSize:    getEnvAsInt("CHUNK_SIZE", 500),

		DBPath:         getEnv("DB_PATH", "data/db/drawings.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations/001_init_drawings.sql"),
		StorageRoot:    getEnv("STORAGE_ROOT", "source"),
		InboxDir:       getEnv("INBOX_DIR", ""),
		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS"),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
