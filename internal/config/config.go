package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string

	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	FromEmail string

	GithubClientID     string
	GithubClientSecret string

	ActivationURLTemplate    string
	ResetPasswordURLTemplate string
}

func Load() *Config {
	// Missing .env is fine; real environments set vars directly.
	_ = godotenv.Load()

	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "portal"),
		DBPassword: getEnv("DB_PASSWORD", "portal"),
		DBName:     getEnv("DB_NAME", "portal"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),

		SMTPHost:  getEnv("SMTP_HOST", "localhost"),
		SMTPPort:  getEnv("SMTP_PORT", "25"),
		SMTPUser:  getEnv("SMTP_USER", ""),
		SMTPPass:  getEnv("SMTP_PASSWORD", ""),
		FromEmail: getEnv("FROM_EMAIL", "portal@localhost"),

		GithubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
		GithubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),

		ActivationURLTemplate:    getEnv("ACTIVATION_URL_TEMPLATE", "http://localhost:3000/activate/%s"),
		ResetPasswordURLTemplate: getEnv("RESET_PASSWORD_URL_TEMPLATE", "http://localhost:3000/reset-password/%s"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
