package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Data    DataConfig    `mapstructure:"data"`
	Schemes SchemesConfig `mapstructure:"schemes"`
	Quote   QuoteConfig   `mapstructure:"quote"`
	Log     LogConfig     `mapstructure:"log"`
}

type DataConfig struct {
	Source      string `mapstructure:"source"` // "file" or "postgres"
	Path        string `mapstructure:"path"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

type SchemesConfig struct {
	Backend string `mapstructure:"backend"` // "memory", "yaml" or "sqlite"
	Dir     string `mapstructure:"dir"`
}

type QuoteConfig struct {
	ContainerType string `mapstructure:"container_type"`
	Limit         int    `mapstructure:"limit"`
	ReferenceDate string `mapstructure:"reference_date"` // empty means today
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		Data: DataConfig{
			Source: "file",
			Path:   "rates.yaml",
		},
		Schemes: SchemesConfig{
			Backend: "yaml",
			Dir:     defaultSchemesDir(),
		},
		Quote: QuoteConfig{
			ContainerType: "20GP",
			Limit:         20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// New returns a viper instance carrying every default, config search paths and
// CTOWER_ environment overrides. Callers may bind flags before Load reads it.
func New() *viper.Viper {
	v := viper.New()

	// Set config name and type
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths in priority order
	// 1. User config directory
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "ctower"))
	}

	// 2. Current directory
	v.AddConfigPath(".")

	// 3. Default config directory
	v.AddConfigPath("./config")

	d := GetDefaults()
	v.SetDefault("data.source", d.Data.Source)
	v.SetDefault("data.path", d.Data.Path)
	v.SetDefault("data.postgres_dsn", d.Data.PostgresDSN)
	v.SetDefault("schemes.backend", d.Schemes.Backend)
	v.SetDefault("schemes.dir", d.Schemes.Dir)
	v.SetDefault("quote.container_type", d.Quote.ContainerType)
	v.SetDefault("quote.limit", d.Quote.Limit)
	v.SetDefault("quote.reference_date", d.Quote.ReferenceDate)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetEnvPrefix("ctower")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads configuration into a Config. An explicit file path replaces the
// search paths; a missing file found by search is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}

	// Read config (it's okay if file doesn't exist, we have defaults)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	// Unmarshal into struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch c.Data.Source {
	case "file":
		if c.Data.Path == "" {
			return fmt.Errorf("data.path is required for the file source")
		}
	case "postgres":
		if c.Data.PostgresDSN == "" {
			return fmt.Errorf("data.postgres_dsn is required for the postgres source")
		}
	default:
		return fmt.Errorf("unknown data.source '%s'", c.Data.Source)
	}

	switch c.Schemes.Backend {
	case "memory", "yaml", "sqlite":
	default:
		return fmt.Errorf("unknown schemes.backend '%s'", c.Schemes.Backend)
	}

	if c.Quote.Limit < 0 {
		return fmt.Errorf("quote.limit cannot be negative")
	}
	return nil
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "ctower"), nil
}

func defaultSchemesDir() string {
	if dir, err := GetConfigPath(); err == nil {
		return dir
	}
	return "."
}
