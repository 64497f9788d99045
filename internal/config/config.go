package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	TablePrefix string
	// Auth
	JWTSecret string
	// Agent configuration
	AnthropicAPIKey string
	AgentModel      string
	AgentMaxRounds  int
	// Chat endpoint throttling (requests per minute, per user)
	ChatRatePerMinute int
	ChatRateBurst     int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: getTablePrefix(env),
		JWTSecret:   getEnv("SECRET_KEY", "default_secret_key_for_dev"),
		// Agent configuration
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AgentModel:      getEnv("AGENT_MODEL", "claude-haiku-4-5-20251001"),
		AgentMaxRounds:  getEnvInt("AGENT_MAX_ROUNDS", 15),
		// Throttling
		ChatRatePerMinute: getEnvInt("CHAT_RATE_PER_MINUTE", 20),
		ChatRateBurst:     getEnvInt("CHAT_RATE_BURST", 5),
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
