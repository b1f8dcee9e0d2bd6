// Package config loads the framelab configuration from framelab.yml, with
// environment variable overrides and sane defaults for local use.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the framelab configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	APIPrefix string `mapstructure:"api_prefix"`
}

// Address returns the listen address in host:port form
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig represents storage configuration
type DatabaseConfig struct {
	// Driver is the database/sql driver name
	Driver string `mapstructure:"driver"`
	// URL is the driver-specific data source name
	URL string `mapstructure:"url"`
}

// CacheConfig represents the optional second-level cache configuration
type CacheConfig struct {
	// Enabled turns the Redis-backed snapshot cache on
	Enabled bool `mapstructure:"enabled"`
	// Addr is the Redis address in host:port form
	Addr string `mapstructure:"addr"`
	// TTLSeconds bounds snapshot lifetime; zero means no expiry
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`
}

// Load loads the configuration from framelab.yml or framelab.yaml in the
// working directory. A missing file is not an error; defaults and
// FRAMELAB_* environment variables apply either way.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.api_prefix", "")
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.url", ":memory:")
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.ttl_seconds", 300)
	v.SetDefault("log.level", "info")

	v.SetConfigName("framelab")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FRAMELAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", cfg.Server.Port)
	}
	if cfg.Server.APIPrefix != "" {
		if !strings.HasPrefix(cfg.Server.APIPrefix, "/") {
			return fmt.Errorf("server.api_prefix must start with '/', got: %s", cfg.Server.APIPrefix)
		}
		if strings.HasSuffix(cfg.Server.APIPrefix, "/") {
			return fmt.Errorf("server.api_prefix must not end with '/', got: %s", cfg.Server.APIPrefix)
		}
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn, or error, got: %s", cfg.Log.Level)
	}
	return nil
}
