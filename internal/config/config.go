// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// placeholderJWTSecret is the value shipped in .env.example.
const placeholderJWTSecret = "change-me-to-a-random-string-of-32-chars"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port              string        `mapstructure:"PORT"`
	Env               string        `mapstructure:"APP_ENV"`
	MongoURI          string        `mapstructure:"MONGO_URI"`
	MongoDatabase     string        `mapstructure:"MONGO_DATABASE"`
	MongoTimeout      time.Duration `mapstructure:"MONGO_TIMEOUT"`
	MongoTransactions bool          `mapstructure:"MONGO_TRANSACTIONS"`
	RedisURL          string        `mapstructure:"REDIS_URL"`
	CacheTTL          time.Duration `mapstructure:"CACHE_TTL"`
	CacheFallbackSize int           `mapstructure:"CACHE_FALLBACK_SIZE"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	JWTIssuer         string        `mapstructure:"JWT_ISSUER"`
	JWTAudience       string        `mapstructure:"JWT_AUDIENCE"`
	AllowedOrigins    string        `mapstructure:"ALLOWED_ORIGINS"`
	RateLimitVotes    int           `mapstructure:"RATE_LIMIT_VOTES"`
	RateLimitAuth     int           `mapstructure:"RATE_LIMIT_AUTH"`
	ReconcileSchedule string        `mapstructure:"RECONCILE_SCHEDULE"`
	ReconcileSettle   time.Duration `mapstructure:"RECONCILE_SETTLE"`
	OTelExporter      string        `mapstructure:"OTEL_EXPORTER"`
	OTelEndpoint      string        `mapstructure:"OTEL_ENDPOINT"`
}

// LoadConfig loads application configuration from .env, config files and environment variables.
func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables win over it.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("Config warning: failed to load .env: %v", err)
		}
	}

	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base config file is optional.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env != "" && env != "development" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err == nil {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "syncvote")
	viper.SetDefault("MONGO_TIMEOUT", "5s")
	viper.SetDefault("MONGO_TRANSACTIONS", false)
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("CACHE_TTL", "60s")
	viper.SetDefault("CACHE_FALLBACK_SIZE", 1024)
	viper.SetDefault("JWT_ISSUER", "syncvote-api")
	viper.SetDefault("JWT_AUDIENCE", "syncvote-clients")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT_VOTES", 30)
	viper.SetDefault("RATE_LIMIT_AUTH", 10)
	viper.SetDefault("RECONCILE_SCHEDULE", "")
	viper.SetDefault("RECONCILE_SETTLE", "1m")
	viper.SetDefault("OTEL_EXPORTER", "none")
	viper.SetDefault("OTEL_ENDPOINT", "")
}

// IsProduction reports whether the config describes a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.MongoURI == "" {
		return errors.New("MONGO_URI is required")
	}
	if c.MongoDatabase == "" {
		return errors.New("MONGO_DATABASE is required")
	}
	if c.CacheTTL <= 0 {
		return errors.New("CACHE_TTL must be positive")
	}
	// A vote is counted by reconciliation only once its insert and increment
	// have both had time to finish.
	if c.ReconcileSettle < 2*c.MongoTimeout {
		return errors.New("RECONCILE_SETTLE must be at least twice MONGO_TIMEOUT")
	}

	if c.IsProduction() {
		if c.JWTSecret == placeholderJWTSecret {
			return errors.New("JWT_SECRET must be changed from the example value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	switch c.OTelExporter {
	case "", "none", "stdout":
	case "otlp":
		if c.OTelEndpoint == "" {
			return errors.New("OTEL_ENDPOINT is required when OTEL_EXPORTER is otlp")
		}
	default:
		return fmt.Errorf("unknown OTEL_EXPORTER %q", c.OTelExporter)
	}

	return nil
}
