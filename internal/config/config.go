package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// JWT configuration
	JWT JWTConfig

	// CORS configuration
	CORS CORSConfig

	// Scheduling engine configuration
	Scheduling SchedulingConfig

	// Real-time push configuration
	Realtime RealtimeConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
	ConnMaxIdleTime    time.Duration
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret      string
	TokenExpiry time.Duration // lifetime of tokens minted by cmd/generate-secrets
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// SchedulingConfig holds housekeeping engine settings
type SchedulingConfig struct {
	Timezone          string // IANA zone defining the facility-local day
	GuestDailyLimit   int    // max requests per guest per day
	AdminOfficeRoom   string // room number of the synthetic per-facility staff room
	CheckoutSweepSpec string // cron spec (with seconds) for the checkout sweep
}

// RealtimeConfig holds websocket hub settings
type RealtimeConfig struct {
	AllowedOrigins []string
	SendBuffer     int
}

// Location resolves the configured scheduling timezone
func (s SchedulingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
			ConnMaxIdleTime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_IDLE_TIME", 150)) * time.Second,
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", ""),
			TokenExpiry: time.Duration(getEnvAsInt("JWT_TOKEN_EXPIRY_HOURS", 24)) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "token"}),
		},
		Scheduling: SchedulingConfig{
			Timezone:          getEnv("FACILITY_TIMEZONE", "Asia/Manila"),
			GuestDailyLimit:   getEnvAsInt("GUEST_DAILY_REQUEST_LIMIT", 3),
			AdminOfficeRoom:   getEnv("ADMIN_OFFICE_ROOM", "Admin Office"),
			CheckoutSweepSpec: getEnv("CHECKOUT_SWEEP_CRON", "0 * * * * *"),
		},
		Realtime: RealtimeConfig{
			AllowedOrigins: getEnvAsSlice("REALTIME_ALLOWED_ORIGINS", []string{"*"}),
			SendBuffer:     getEnvAsInt("REALTIME_SEND_BUFFER", 32),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if _, err := c.Scheduling.Location(); err != nil {
		return fmt.Errorf("invalid FACILITY_TIMEZONE %q: %w", c.Scheduling.Timezone, err)
	}

	if c.Scheduling.GuestDailyLimit <= 0 {
		return fmt.Errorf("GUEST_DAILY_REQUEST_LIMIT must be positive")
	}

	return nil
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
