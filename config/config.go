package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// developmentJWTSecret signs staff sessions when JWT_SECRET is unset outside production.
const developmentJWTSecret = "development-only-secret"

// Config holds all application configuration
type Config struct {
	MainDBURL          string        `mapstructure:"main_db_url"`
	MainDBToken        string        `mapstructure:"main_db_token"`
	Port               string        `mapstructure:"port"`
	GoEnv              string        `mapstructure:"go_env"`
	LogLevel           string        `mapstructure:"log_level"`
	SQLHTTPTimeout     time.Duration `mapstructure:"sql_http_timeout"`
	RestoreChunkSize   int           `mapstructure:"restore_chunk_size"`
	JWTSecret          string        `mapstructure:"jwt_secret"`
	SessionTTL         time.Duration `mapstructure:"session_ttl"`
	Auth0Domain        string        `mapstructure:"auth0_domain"`
	Auth0Audience      string        `mapstructure:"auth0_audience"`
	RedisAddr          string        `mapstructure:"redis_addr"`
	RedisPassword      string        `mapstructure:"redis_password"`
	RedisDB            int           `mapstructure:"redis_db"`
	CacheTTL           time.Duration `mapstructure:"cache_ttl"`
	AWSRegion          string        `mapstructure:"aws_region"`
	AWSS3Bucket        string        `mapstructure:"aws_s3_bucket"`
	AWSAccessKeyID     string        `mapstructure:"aws_access_key_id"`
	AWSSecretAccessKey string        `mapstructure:"aws_secret_access_key"`
	CORSOrigins        string        `mapstructure:"cors_origins"`
	LocalDBPath        string        `mapstructure:"local_db_path"`
	LocalDBPort        string        `mapstructure:"local_db_port"`
}

var defaults = map[string]any{
	"main_db_url":           "",
	"main_db_token":         "",
	"port":                  "8080",
	"go_env":                "development",
	"log_level":             "info",
	"sql_http_timeout":      "15s",
	"restore_chunk_size":    50,
	"jwt_secret":            "",
	"session_ttl":           "12h",
	"auth0_domain":          "",
	"auth0_audience":        "",
	"redis_addr":            "",
	"redis_password":        "",
	"redis_db":              0,
	"cache_ttl":             "5m",
	"aws_region":            "us-east-1",
	"aws_s3_bucket":         "",
	"aws_access_key_id":     "",
	"aws_secret_access_key": "",
	"cors_origins":          "",
	"local_db_path":         "local.db",
	"local_db_port":         "8081",
}

var current *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	config, err := read()
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadLocal loads the configuration for the local SQL endpoint, which does
// not need a main database URL.
func LoadLocal() (*Config, error) {
	config, err := read()
	if err != nil {
		return nil, err
	}
	if config.LocalDBPath == "" {
		return nil, fmt.Errorf("LOCAL_DB_PATH is required")
	}
	return config, nil
}

func read() (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	// An optional YAML file provides values the environment does not set
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.JWTSecret == "" && !config.IsProduction() {
		config.JWTSecret = developmentJWTSecret
	}
	return &config, nil
}

func loadEnvFiles() {
	// Determine which environment file to load
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		// If environment-specific file doesn't exist, try .env
		if err := godotenv.Load(); err != nil {
			// In production environment variables are set directly
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.MainDBURL == "" {
		return fmt.Errorf("MAIN_DB_URL is required")
	}
	if c.IsProduction() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.SQLHTTPTimeout <= 0 {
		return fmt.Errorf("SQL_HTTP_TIMEOUT must be positive")
	}
	if c.RestoreChunkSize <= 0 {
		return fmt.Errorf("RESTORE_CHUNK_SIZE must be positive")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// AllowedOrigins splits CORS_ORIGINS on commas. Empty means any origin.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// GetConfig returns the configuration set by SetConfig
func GetConfig() *Config {
	return current
}

// SetConfig sets the process configuration (used by main and by tests)
func SetConfig(c *Config) {
	current = c
}
