package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	JWTKey string

	LedgerGatewayURL     string
	LedgerConfirmTimeout int // seconds to wait for block confirmation
	LedgerPollInterval   int // seconds between confirmation polls

	HintApiURL   string
	HintApiKey   string
	HintModel    string
	HintMaxTurns int // history turns sent per hint request

	SendgridApiKey string
	EmailSender    string

	UploadDir string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		LedgerGatewayURL:     getEnv("LEDGER_GATEWAY_URL", "http://localhost:8545/gateway/v1"),
		LedgerConfirmTimeout: getEnvInt("LEDGER_CONFIRM_TIMEOUT", 90),
		LedgerPollInterval:   getEnvInt("LEDGER_POLL_INTERVAL", 3),

		HintApiURL:   getEnv("HINT_API_URL", "https://api.openai.com/v1/chat/completions"),
		HintApiKey:   getEnv("HINT_API_KEY", ""),
		HintModel:    getEnv("HINT_MODEL", "gpt-4o-mini"),
		HintMaxTurns: getEnvInt("HINT_MAX_TURNS", 10),

		SendgridApiKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@chainlearn.io"),

		UploadDir: getEnv("UPLOAD_DIR", "./public/uploads"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: using default JWT secret. Set JWT_SECRET_KEY in production.")
	}
	if AppConfig.HintApiKey == "" {
		log.Println("Warning: HINT_API_KEY not set. Hint assistant will be unavailable.")
	}
}

// getEnv fetches an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt fetches an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
