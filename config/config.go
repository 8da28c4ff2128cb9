package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Gateway   GatewayConfig
	Matching  MatchingConfig
	Extractor ExtractorConfig
	Cache     CacheConfig
	Session   SessionConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GatewayConfig holds vendor tool-bridge configuration
type GatewayConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

// MatchingConfig holds matching and fan-out configuration
type MatchingConfig struct {
	MaxCandidates int           `mapstructure:"max_candidates"`
	Concurrency   int           `mapstructure:"concurrency"`
	MatchTimeout  time.Duration `mapstructure:"match_timeout"`
	Debug         bool          `mapstructure:"debug"`
}

// ExtractorConfig holds locale vocabulary overrides for the extractor
type ExtractorConfig struct {
	ExtraUnits []string          `mapstructure:"extra_units"`
	Synonyms   map[string]string `mapstructure:"synonyms"`
}

// CacheConfig holds search-result cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// SessionConfig holds resolution-session retention configuration
type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/recipecart/")

	v.SetEnvPrefix("RECIPECART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Gateway defaults
	v.SetDefault("gateway.base_url", "http://localhost:3000")
	v.SetDefault("gateway.timeout", "10s")
	v.SetDefault("gateway.requests_per_second", 5.0)
	v.SetDefault("gateway.burst", 10)

	// Matching defaults
	v.SetDefault("matching.max_candidates", 5)
	v.SetDefault("matching.concurrency", 5)
	v.SetDefault("matching.match_timeout", "5s")
	v.SetDefault("matching.debug", false)

	// Cache and session defaults
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("session.ttl", "2h")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Gateway.BaseURL == "" {
		return fmt.Errorf("gateway base URL is required (set RECIPECART_GATEWAY_BASE_URL)")
	}
	if config.Matching.MaxCandidates < 1 {
		return fmt.Errorf("matching max_candidates must be at least 1, got: %d", config.Matching.MaxCandidates)
	}
	if config.Matching.Concurrency < 1 {
		return fmt.Errorf("matching concurrency must be at least 1, got: %d", config.Matching.Concurrency)
	}
	if config.Gateway.RequestsPerSecond <= 0 {
		return fmt.Errorf("gateway requests_per_second must be positive, got: %f", config.Gateway.RequestsPerSecond)
	}
	return nil
}
