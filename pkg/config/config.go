package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	Redis  RedisConfig
	Travel TravelConfig
	Log    LogConfig
	OTEL   OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
	// ResponseCacheTTL is the lifetime in seconds of cached search and
	// geocode responses; zero disables response caching.
	ResponseCacheTTL int
}

// RedisConfig holds Redis configuration. URL, when set, takes precedence over
// the individual fields.
type RedisConfig struct {
	URL      string
	Host     string
	Port     int
	Password string
	DB       int
}

// TravelConfig holds travel (geocoding / distance matrix) provider configuration
type TravelConfig struct {
	Provider      string
	APIKey        string
	HTTPTimeout   time.Duration
	RetryAttempts int
}

// LogConfig holds logger configuration
type LogConfig struct {
	Env   string
	Level string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:             getEnv("SERVER_HOST", "0.0.0.0"),
			Port:             getEnvAsInt("SERVER_PORT", 8080),
			AllowedOrigins:   getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
			ResponseCacheTTL: getEnvAsInt("RESPONSE_CACHE_TTL", 60),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Travel: TravelConfig{
			Provider:      getEnv("TRAVEL_PROVIDER", "google"),
			APIKey:        getEnv("GOOGLE_MAPS_API_KEY", ""),
			HTTPTimeout:   getEnvAsDuration("TRAVEL_HTTP_TIMEOUT", 8*time.Second),
			RetryAttempts: getEnvAsInt("TRAVEL_RETRY_ATTEMPTS", 3),
		},
		Log: LogConfig{
			Env:   getEnv("APP_ENV", "production"),
			Level: getEnv("LOG_LEVEL", "info"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "hikewithben-search"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the services cannot start with.
func (c *Config) Validate() error {
	switch c.Travel.Provider {
	case "google", "mock":
	default:
		return fmt.Errorf("unknown TRAVEL_PROVIDER %q", c.Travel.Provider)
	}
	if c.Travel.HTTPTimeout <= 0 {
		return fmt.Errorf("TRAVEL_HTTP_TIMEOUT must be positive")
	}
	if c.Server.ResponseCacheTTL < 0 {
		return fmt.Errorf("RESPONSE_CACHE_TTL must not be negative")
	}
	if c.Travel.RetryAttempts < 1 {
		return fmt.Errorf("TRAVEL_RETRY_ATTEMPTS must be at least 1")
	}
	return nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ServerAddr returns the listen address
func (c *ServerConfig) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
