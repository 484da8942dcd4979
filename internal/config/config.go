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

	// Redis configuration (optional tour cache)
	Redis RedisConfig

	// Catalog (headless CMS) configuration
	Catalog CatalogConfig

	// Scheduling service (Cal.com) configuration
	Scheduling SchedulingConfig

	// Payment provider (PayPal) configuration
	Payment PaymentConfig

	// Customer token configuration
	Token TokenConfig

	// CORS configuration
	CORS CORSConfig
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
}

// RedisConfig holds the optional tour-cache configuration. An empty Addr
// disables caching entirely.
type RedisConfig struct {
	Addr     string
	TourTTL  time.Duration
	Password string
}

// CatalogConfig holds the CMS read API configuration
type CatalogConfig struct {
	BaseURL string // Strapi base URL, also used to resolve relative image URLs
}

// SchedulingConfig holds Cal.com API configuration
type SchedulingConfig struct {
	BaseURL  string
	APIKey   string
	Username string
	TimeZone string // timezone sent with created bookings
}

// PaymentConfig holds PayPal configuration. ClientSecret is never exposed to
// clients; it is only used for the server-side order lookup.
type PaymentConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
}

// TokenConfig holds customer identity token configuration
type TokenConfig struct {
	Secret     string
	Expiry     time.Duration
	CookieName string
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
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
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			TourTTL:  time.Duration(getEnvAsInt("REDIS_TOUR_TTL_SECONDS", 300)) * time.Second,
		},
		Catalog: CatalogConfig{
			BaseURL: getEnv("STRAPI_API_URL", ""),
		},
		Scheduling: SchedulingConfig{
			BaseURL:  getEnv("CAL_COM_API_URL", "https://api.cal.com/v1"),
			APIKey:   getEnv("CAL_COM_API_KEY", ""),
			Username: getEnv("CAL_COM_USERNAME", ""),
			TimeZone: getEnv("CAL_COM_TIMEZONE", "America/Los_Angeles"),
		},
		Payment: PaymentConfig{
			BaseURL:      getEnv("PAYPAL_API_ENDPOINT", "https://api-m.sandbox.paypal.com"),
			ClientID:     getEnv("PAYPAL_CLIENT_ID", ""),
			ClientSecret: getEnv("PAYPAL_CLIENT_SECRET", ""),
		},
		Token: TokenConfig{
			Secret:     getEnv("CUSTOMER_TOKEN_SECRET", ""),
			Expiry:     time.Duration(getEnvAsInt("CUSTOMER_TOKEN_EXPIRY_DAYS", 365)) * 24 * time.Hour,
			CookieName: getEnv("CUSTOMER_TOKEN_COOKIE", "ft-customer-token"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
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

	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("STRAPI_API_URL is required")
	}

	if c.Scheduling.APIKey == "" {
		return fmt.Errorf("CAL_COM_API_KEY is required")
	}

	if c.Scheduling.Username == "" {
		return fmt.Errorf("CAL_COM_USERNAME is required")
	}

	if c.Payment.ClientID == "" || c.Payment.ClientSecret == "" {
		return fmt.Errorf("PAYPAL_CLIENT_ID and PAYPAL_CLIENT_SECRET are required")
	}

	if c.Token.Secret == "" {
		return fmt.Errorf("CUSTOMER_TOKEN_SECRET is required")
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
