package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/safespender/safespender-backend/internal/projection"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string
	AutoMigrate bool

	// Auth0
	Auth0Domain   string
	Auth0Audience string
	Auth0ClientID string

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Projections
	SavingsPolicy projection.SavingsPolicy

	// Exports
	Export ExportConfig

	// S3 Storage
	S3 S3Config
}

// ExportConfig controls calendar workbook exports
type ExportConfig struct {
	URLTTL          time.Duration
	RateLimitPerMin int
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	autoMigrate, err := getEnvBool("AUTO_MIGRATE", false)
	if err != nil {
		return nil, err
	}
	ttl, err := getEnvDuration("EXPORT_URL_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	rateLimit, err := getEnvInt("EXPORT_RATE_LIMIT", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		AutoMigrate:   autoMigrate,
		Auth0Domain:   getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience: getEnv("AUTH0_AUDIENCE", ""),
		Auth0ClientID: getEnv("AUTH0_CLIENT_ID", ""),
		Port:          getEnv("PORT", "8080"),
		CORSOrigins:   strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:           getEnv("ENV", "development"),
		SavingsPolicy: projection.SavingsPolicy(getEnv("SAVINGS_FREQUENCY_POLICY", string(projection.SavingsPolicyApproximate))),
		Export: ExportConfig{
			URLTTL:          ttl,
			RateLimitPerMin: rateLimit,
		},
		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", "safespender"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""), // Empty = use AWS, set for MinIO/LocalStack
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ProjectionOptions returns the options every projection in the API runs with
func (c *Config) ProjectionOptions() projection.Options {
	return projection.Options{SavingsPolicy: c.SavingsPolicy}
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Auth0Domain == "" {
		return fmt.Errorf("AUTH0_DOMAIN is required")
	}
	if c.Auth0Audience == "" {
		return fmt.Errorf("AUTH0_AUDIENCE is required")
	}
	if !c.SavingsPolicy.IsValid() {
		return fmt.Errorf("SAVINGS_FREQUENCY_POLICY must be %q or %q",
			projection.SavingsPolicyApproximate, projection.SavingsPolicyMonthlyOnly)
	}
	if c.Export.URLTTL <= 0 {
		return fmt.Errorf("EXPORT_URL_TTL must be positive")
	}
	if c.Export.RateLimitPerMin <= 0 {
		return fmt.Errorf("EXPORT_RATE_LIMIT must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
