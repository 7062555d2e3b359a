package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Mail     MailConfig
	Session  SessionConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds token signing configuration
type JWTConfig struct {
	Secret          string
	AccessTokenMins int
}

// MailConfig holds outbound mail configuration
type MailConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	AdminEmail string
}

// SessionConfig holds client session lifetime configuration.
// Token expiry and the inactivity timeout are independent watchdogs.
type SessionConfig struct {
	IdleTimeoutMins  int
	IdleWarningSecs  int
	PollIntervalSecs int
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: loadDatabaseConfig(appMode),
		JWT:      loadJWTConfig(appMode),
		Mail:     loadMailConfig(),
		Session:  loadSessionConfig(),
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "apexdrive_backoffice"),
	}
}

// loadJWTConfig loads token config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	accessMins := getEnvInt("ACCESS_TOKEN_MINUTES", 120)

	return JWTConfig{
		Secret:          getEnv(prefix+"JWT_SECRET", "default_secret"),
		AccessTokenMins: accessMins,
	}
}

// loadMailConfig loads SMTP config. Mail is best-effort: missing credentials
// disable sending without failing startup.
func loadMailConfig() MailConfig {
	return MailConfig{
		Host:       getEnv("SMTP_HOST", ""),
		Port:       getEnvInt("SMTP_PORT", 587),
		Username:   getEnv("SMTP_USER", ""),
		Password:   getEnv("SMTP_PASS", ""),
		From:       getEnv("MAIL_FROM", "no-reply@apexdrive.example"),
		AdminEmail: getEnv("MAIL_ADMIN", ""),
	}
}

// loadSessionConfig loads client session lifetime config
func loadSessionConfig() SessionConfig {
	return SessionConfig{
		IdleTimeoutMins:  getEnvInt("IDLE_TIMEOUT_MINUTES", 120),
		IdleWarningSecs:  getEnvInt("IDLE_WARNING_SECONDS", 60),
		PollIntervalSecs: getEnvInt("POLL_INTERVAL_SECONDS", 5),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://backoffice.apexdrive.example"
	}
	return origins
}
