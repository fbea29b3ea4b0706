// Package config loads application settings for the colony tools.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Data       DataConfig       `mapstructure:"data"`
	Output     OutputConfig     `mapstructure:"output"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// Log format: json, text
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// SimulationConfig controls the time-advance loop
type SimulationConfig struct {
	// Length of a day in seconds; producer rates are per day
	SecondsPerDay float64 `mapstructure:"seconds_per_day" validate:"gt=0"`

	// Upper bound on solver calls in one run
	MaxSteps int `mapstructure:"max_steps" validate:"gt=0"`

	// Span simulated when no --days flag is given
	DefaultDays float64 `mapstructure:"default_days" validate:"gt=0"`
}

// DataConfig locates input data
type DataConfig struct {
	// Resource catalog merged over the built-in one. Empty uses the built-in
	// catalog only.
	CatalogPath string `mapstructure:"catalog_path"`
}

// OutputConfig controls exported files
type OutputConfig struct {
	// Timeline CSV written after a simulation. Empty disables it.
	CSVPath string `mapstructure:"csv_path"`
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (colony.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("colony")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix("COLONY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// bindEnv registers every key so AutomaticEnv also applies when the key is
// absent from the config file
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"logging.level",
		"logging.format",
		"simulation.seconds_per_day",
		"simulation.max_steps",
		"simulation.default_days",
		"data.catalog_path",
		"output.csv_path",
	} {
		_ = v.BindEnv(key)
	}
}
