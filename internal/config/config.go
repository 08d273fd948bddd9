package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration settings
type Config struct {
	Router   RouterConfig
	Database DatabaseConfig
	App      AppConfig
}

// RouterConfig holds the device connection settings
type RouterConfig struct {
	BaseURL   string
	Username  string
	Password  string
	VerifyTLS bool
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	LogLevel     string
	ScanInterval time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Router: RouterConfig{
			BaseURL:   getEnv("ROUTER_BASE_URL", "https://192.168.1.1/api"),
			Username:  getEnv("ROUTER_USERNAME", "admin"),
			Password:  getEnv("ROUTER_PASSWORD", ""),
			VerifyTLS: getBoolEnv("ROUTER_VERIFY_TLS", false),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", filepath.Join("data", "modems.db")),
		},
		App: AppConfig{
			LogLevel:     getEnv("LOG_LEVEL", "info"),
			ScanInterval: getDurationEnv("SCAN_INTERVAL", 0),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}
	return cfg, nil
}

// validate performs configuration validation
func (c *Config) validate() error {
	isLocalMode := len(os.Args) > 1 && os.Args[1] == "--local"
	if !isLocalMode && c.Router.Password == "" {
		return fmt.Errorf("ROUTER_PASSWORD is required when not in local mode")
	}
	if c.Router.BaseURL == "" {
		return fmt.Errorf("ROUTER_BASE_URL is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if !isValidLogLevel(c.App.LogLevel) {
		return fmt.Errorf("invalid LOG_LEVEL: %s", c.App.LogLevel)
	}
	if c.App.ScanInterval < 0 {
		return fmt.Errorf("SCAN_INTERVAL must be non-negative")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func isValidLogLevel(level string) bool {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}
	return validLevels[level]
}
