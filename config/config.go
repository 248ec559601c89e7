package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

/* Config is read from an optional .env file (TOML) in the working directory
 * Environment variables always take precedence over the file
 */

type Config struct {
	Port           string `mapstructure:"PORT"`
	StoreCapacity  int    `mapstructure:"STORE_CAPACITY"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	LogJSON        bool   `mapstructure:"LOG_JSON"`
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisDB        int    `mapstructure:"REDIS_DB"`
	RedisChannel   string `mapstructure:"REDIS_CHANNEL"`
	MetricsEnabled bool   `mapstructure:"METRICS_ENABLED"`
}

var defaults = map[string]any{
	"PORT":            "8080",
	"STORE_CAPACITY":  50,
	"LOG_LEVEL":       "info",
	"LOG_JSON":        true,
	"REDIS_ADDR":      "",
	"REDIS_PASSWORD":  "",
	"REDIS_DB":        0,
	"REDIS_CHANNEL":   "webhooks",
	"METRICS_ENABLED": true,
}

func GetConfig() (*Config, error) {
	return load(".")
}

func load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("toml")
	v.AddConfigPath(path)
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &config, nil
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.StoreCapacity <= 0 {
		return fmt.Errorf("STORE_CAPACITY must be positive (got %d)", c.StoreCapacity)
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("REDIS_DB cannot be negative (got %d)", c.RedisDB)
	}
	return nil
}

// RedisEnabled reports whether captured webhooks should be published to Redis
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}
