package infra

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string
	Port   string

	GeminiAPIKey          string
	GeminiBaseURL         string
	GeminiValidateModel   string
	GeminiGenerateModel   string
	VisionMaxRetries      int
	VisionRetryDelay      time.Duration
	VisionValidateTimeout time.Duration
	VisionGenerateTimeout time.Duration
	StrictValidation      bool

	SessionMaxAge          time.Duration
	SessionMaxIdle         time.Duration
	SessionCleanupInterval time.Duration

	DefaultLocale string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	MaxUploadBytes   int64
	AllowedOrigins   []string
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. The Gemini API key is deliberately optional here:
// the vision client raises its own typed error before any network call, so
// the server can still boot (and serve the catalog) without credentials.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "8080"),

		GeminiAPIKey:          os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL:         getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiValidateModel:   getEnv("GEMINI_VALIDATE_MODEL", "gemini-3-flash-preview"),
		GeminiGenerateModel:   getEnv("GEMINI_GENERATE_MODEL", "gemini-2.5-flash-image"),
		VisionMaxRetries:      getEnvInt("VISION_MAX_RETRIES", 2),
		VisionRetryDelay:      time.Millisecond * time.Duration(getEnvInt("VISION_RETRY_DELAY_MS", 500)),
		VisionValidateTimeout: time.Second * time.Duration(getEnvInt("VISION_VALIDATE_TIMEOUT_SECONDS", 30)),
		VisionGenerateTimeout: time.Second * time.Duration(getEnvInt("VISION_GENERATE_TIMEOUT_SECONDS", 120)),
		StrictValidation:      getEnvBool("VISION_STRICT_VALIDATION", false),

		SessionMaxAge:          time.Hour * time.Duration(getEnvInt("SESSION_MAX_AGE_HOURS", 24)),
		SessionMaxIdle:         time.Hour * time.Duration(getEnvInt("SESSION_MAX_IDLE_HOURS", 2)),
		SessionCleanupInterval: time.Minute * time.Duration(getEnvInt("SESSION_CLEANUP_MINUTES", 5)),

		DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 180)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		MaxUploadBytes:   int64(getEnvInt("MAX_UPLOAD_BYTES", 8<<20)),
		AllowedOrigins:   splitCSV(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitCSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
