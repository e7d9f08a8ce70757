package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Redis       RedisConfig
	Prefs       PrefsConfig
	Translation TranslationConfig
	Detector    DetectorConfig
	Sentry      SentryConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port        string
	Environment string
	ServiceName string
	CORSOrigins string // Comma-separated list of allowed origins
	StaticDir   string // Directory served for the demo client page
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// PrefsConfig selects the translation preference store backend
type PrefsConfig struct {
	Backend string // "memory" (default) or "redis"
}

// TranslationConfig holds translation provider configuration
type TranslationConfig struct {
	Mode           string // "mock" (default) or "libretranslate"
	BaseURL        string // base URL of the remote provider, libretranslate mode only
	APIKey         string
	TimeoutSeconds int // per-message translation deadline
}

// DetectorConfig selects the language detection strategy
type DetectorConfig struct {
	Mode string // "heuristic" (default) or "auto" (statistical)
}

// SentryConfig holds Sentry error reporting configuration
type SentryConfig struct {
	DSN     string
	Enabled bool
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			ServiceName: serviceName,
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
			StaticDir:   getEnv("STATIC_DIR", "./public"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Prefs: PrefsConfig{
			Backend: getEnv("PREFS_BACKEND", "memory"),
		},
		Translation: TranslationConfig{
			Mode:           getEnv("TRANSLATION_MODE", "mock"),
			BaseURL:        getEnv("TRANSLATION_BASE_URL", ""),
			APIKey:         getEnv("TRANSLATION_API_KEY", ""),
			TimeoutSeconds: getEnvAsInt("TRANSLATION_TIMEOUT", 5),
		},
		Detector: DetectorConfig{
			Mode: getEnv("DETECTOR_MODE", "heuristic"),
		},
		Sentry: SentryConfig{
			DSN:     getEnv("SENTRY_DSN", ""),
			Enabled: getEnvAsBool("SENTRY_ENABLED", false),
		},
	}

	return cfg, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
