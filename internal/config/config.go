// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"paidfor/internal/logging"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Store struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"store"`

	Notify struct {
		MinAmount float64       `mapstructure:"min_amount"`
		Debounce  time.Duration `mapstructure:"debounce"`
	} `mapstructure:"notify"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter"`
	} `mapstructure:"csv"`

	Categories struct {
		File string `mapstructure:"file"`
	} `mapstructure:"categories"`

	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
}

// LoadEnv loads variables from envFile (default ".env") if it exists.
// Already-set environment variables win.
func LoadEnv(envFile string) {
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err != nil {
		return
	}
	_ = godotenv.Load(envFile)
}

// Load reads defaults, then config.yaml from $HOME/.paidfor, .paidfor or the
// working directory, then PAIDFOR_* environment variables. A non-empty
// configFile replaces the search path.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.paidfor")
		v.AddConfigPath(".paidfor")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("PAIDFOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("store.path", "transactions.json")

	v.SetDefault("notify.min_amount", 200)
	v.SetDefault("notify.debounce", 5*time.Minute)

	v.SetDefault("csv.delimiter", ";")

	v.SetDefault("categories.file", "")

	v.SetDefault("server.addr", ":8080")
}

func validate(cfg *Config) error {
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}

	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", cfg.Log.Format)
	}

	if len([]rune(cfg.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %q", cfg.CSV.Delimiter)
	}

	if cfg.Notify.MinAmount < 0 {
		return fmt.Errorf("notify.min_amount must not be negative, got: %v", cfg.Notify.MinAmount)
	}

	if cfg.Notify.Debounce < 0 {
		return fmt.Errorf("notify.debounce must not be negative, got: %s", cfg.Notify.Debounce)
	}

	return nil
}

// Logger builds the application logger from the log section
func (c *Config) Logger() logging.Logger {
	return logging.NewLogrusAdapter(strings.ToLower(c.Log.Level), strings.ToLower(c.Log.Format))
}

// Delimiter returns the CSV delimiter as a rune
func (c *Config) Delimiter() rune {
	return []rune(c.CSV.Delimiter)[0]
}
