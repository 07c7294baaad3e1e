// Package config loads runtime configuration from the environment.
// Components receive the Config struct (or a sub-struct) at construction
// time; nothing reads environment variables after startup.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Server
	Port string
	Env  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Pipeline trigger endpoints (X-API-Key)
	PipelineAPIKey string

	// AI provider (Perplexity-compatible chat completions)
	AIAPIKey  string
	AIBaseURL string
	AIModel   string

	// Webflow CMS collection that mirrors approved signals
	WebflowToken        string
	WebflowCollectionID string
	WebflowBaseURL      string

	// Risk gating for auto-approval
	RiskCeilingUSD   float64
	RiskPerSignalUSD float64

	// Sync and cleanup pacing
	SyncBatchSize int
	SyncDelay     time.Duration
	CleanupDelay  time.Duration

	// Outbound HTTP
	HTTPTimeout time.Duration

	// Public, non-secret values served by the config endpoint
	PublicAPIURL  string
	PublicAnonKey string
	AssetBaseURL  string

	// Optional Telegram notifications
	TelegramToken  string
	TelegramChatID int64

	// Quotes provider
	QuotesBaseURL string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if present; plain env vars win otherwise.
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		PipelineAPIKey: getEnv("PIPELINE_API_KEY", ""),

		AIAPIKey:  getEnv("AI_API_KEY", ""),
		AIBaseURL: getEnv("AI_BASE_URL", "https://api.perplexity.ai"),
		AIModel:   getEnv("AI_MODEL", "sonar-pro"),

		WebflowToken:        getEnv("WEBFLOW_API_TOKEN", ""),
		WebflowCollectionID: getEnv("WEBFLOW_SIGNALS_COLLECTION_ID", ""),
		WebflowBaseURL:      getEnv("WEBFLOW_BASE_URL", "https://api.webflow.com/v2"),

		RiskCeilingUSD:   getEnvFloat("RISK_CEILING_USD", 4000),
		RiskPerSignalUSD: getEnvFloat("RISK_PER_SIGNAL_USD", 50),

		SyncBatchSize: getEnvInt("SYNC_BATCH_SIZE", 10),
		SyncDelay:     getEnvDuration("SYNC_DELAY", 200*time.Millisecond),
		CleanupDelay:  getEnvDuration("CLEANUP_DELAY", 100*time.Millisecond),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 30*time.Second),

		PublicAPIURL:  getEnv("PUBLIC_API_URL", ""),
		PublicAnonKey: getEnv("PUBLIC_ANON_KEY", ""),
		AssetBaseURL:  getEnv("ASSET_BASE_URL", "https://cdn.jsdelivr.net/gh/tombomann/klarpakke@main/web"),

		TelegramToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID: getEnvInt64("TELEGRAM_CHAT_ID", 0),

		QuotesBaseURL: getEnv("QUOTES_BASE_URL", "https://api.coingecko.com/api/v3"),
	}

	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	return config, nil
}

// RequireAI fails when the AI provider credentials are missing.
func (c *Config) RequireAI() error {
	if c.AIAPIKey == "" {
		return fmt.Errorf("AI_API_KEY is required")
	}
	return nil
}

// RequireWebflow fails when the CMS credentials are missing.
func (c *Config) RequireWebflow() error {
	if c.WebflowToken == "" {
		return fmt.Errorf("WEBFLOW_API_TOKEN is required")
	}
	if c.WebflowCollectionID == "" {
		return fmt.Errorf("WEBFLOW_SIGNALS_COLLECTION_ID is required")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Warning: invalid %s value '%s', using default\n", key, value)
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
		log.Printf("Warning: invalid %s value '%s', using default\n", key, value)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Warning: invalid %s value '%s', using default\n", key, value)
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Warning: invalid %s value '%s', using default\n", key, value)
	}
	return defaultValue
}
