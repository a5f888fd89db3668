package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment. It is
// built once in main and passed down explicitly so tests can construct
// their own instances.
type Config struct {
	HTTPPort string
	LogLevel string

	SupabaseURL        string
	SupabaseServiceKey string

	OpenAIAPIKey string
	OpenAIModel  string

	JWTSecret  string
	CronSecret string

	// Web Push (VAPID) credentials for the send-due dispatcher.
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string

	// Minutes ahead of "now" a schedule block counts as due for a push.
	DueWindowMinutes int
}

// Load reads .env (when present) and the process environment. Missing
// secrets are an error up front rather than a 500 on first use.
func Load() (Config, error) {
	_ = godotenv.Load() // no .env file is fine in deployed environments

	cfg := Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		CronSecret:         getEnv("CRON_SECRET", ""),
		VAPIDPublicKey:     getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey:    getEnv("VAPID_PRIVATE_KEY", ""),
		VAPIDSubject:       getEnv("VAPID_SUBJECT", "mailto:support@nervi.app"),
		DueWindowMinutes:   getEnvAsInt("DUE_WINDOW_MINUTES", 15),
	}

	if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
		return Config{}, fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY are required")
	}
	if cfg.OpenAIAPIKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
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
