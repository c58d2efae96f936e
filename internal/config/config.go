// Package config loads sieve binary settings from defaults, an optional
// YAML file, SIEVE_ environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/zoobzio/sieve"
)

// EnvPrefix prefixes every environment override, e.g. SIEVE_PUMP_RATE.
const EnvPrefix = "SIEVE"

// Config represents the complete sieve configuration
type Config struct {
	// Quiescence is how long filter input must be quiet before it applies.
	Quiescence time.Duration `mapstructure:"quiescence" validate:"gte=0"`

	// Seed is the number of records generated at startup.
	Seed int `mapstructure:"seed" validate:"gte=0"`

	// RandomSeed fixes the demo generator; 0 picks a random one.
	RandomSeed uint64 `mapstructure:"random_seed"`

	Pump    PumpConfig    `mapstructure:"pump"`
	Feed    FeedConfig    `mapstructure:"feed"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// PumpConfig controls background record generation
type PumpConfig struct {
	// Rate is records per second; 0 disables the pump.
	Rate float64 `mapstructure:"rate" validate:"gte=0"`
	// Burst is the number of records that may be appended back to back.
	Burst int `mapstructure:"burst" validate:"gte=1"`
	// Limit stops the pump after this many records (0 = unlimited).
	Limit int `mapstructure:"limit" validate:"gte=0"`
}

// FeedConfig controls loading records from a file
type FeedConfig struct {
	// Path is a JSON, JWCC or YAML record file. Empty disables the feed.
	Path string `mapstructure:"path"`
	// Debounce coalesces rapid file writes.
	Debounce time.Duration `mapstructure:"debounce" validate:"gte=0"`
}

// FilterConfig holds the initial filter values for headless runs
type FilterConfig struct {
	Name        string  `mapstructure:"name"`
	Color       string  `mapstructure:"color"`
	MinProgress float64 `mapstructure:"min_progress" validate:"gte=0,lte=100"`
}

// LoggingConfig controls structured logging
type LoggingConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR.
	Level string `mapstructure:"level" validate:"oneof=DEBUG INFO WARN ERROR debug info warn error"`
	// Format is text or json.
	Format string `mapstructure:"format" validate:"oneof=text json"`
	// File receives log output; empty means stderr.
	File string `mapstructure:"file"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	// Addr is the listen address for /metrics; empty disables it.
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Quiescence: sieve.DefaultQuiescence,
		Seed:       100,
		Pump: PumpConfig{
			Rate:  sieve.DefaultPumpRate,
			Burst: sieve.DefaultPumpBurst,
		},
		Feed: FeedConfig{
			Debounce: sieve.DefaultFeedDebounce,
		},
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "text",
		},
	}
}

// SetDefaults registers Default() with v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("quiescence", defaults.Quiescence)
	v.SetDefault("seed", defaults.Seed)
	v.SetDefault("random_seed", defaults.RandomSeed)

	v.SetDefault("pump.rate", defaults.Pump.Rate)
	v.SetDefault("pump.burst", defaults.Pump.Burst)
	v.SetDefault("pump.limit", defaults.Pump.Limit)

	v.SetDefault("feed.path", defaults.Feed.Path)
	v.SetDefault("feed.debounce", defaults.Feed.Debounce)

	v.SetDefault("filter.name", defaults.Filter.Name)
	v.SetDefault("filter.color", defaults.Filter.Color)
	v.SetDefault("filter.min_progress", defaults.Filter.MinProgress)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.file", defaults.Logging.File)

	v.SetDefault("metrics.addr", defaults.Metrics.Addr)
}

// Init prepares v: defaults, environment overrides and, when present, a
// config file. An explicit file that cannot be read is an error; a missing
// sieve.yaml in the working directory is not.
func Init(v *viper.Viper, file string) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	// SIEVE_PUMP_RATE for pump.rate
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", file, err)
		}
		return nil
	}

	v.SetConfigName("sieve")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	var notFound viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load reads the configuration from v into a Config struct and validates it
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field constraint.
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
