// Package config loads packtrack settings from an optional TOML file, a .env
// file and PACKTRACK_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/example/packtrack/internal/core/codegen"
	"github.com/example/packtrack/internal/core/errs"
)

// Backend names.
const (
	BackendRemote = "remote"
	BackendLocal  = "local"
)

// EnvPrefix is prepended to every environment override, e.g. PACKTRACK_BACKEND.
const EnvPrefix = "PACKTRACK"

// Config represents the packtrack configuration.
type Config struct {
	Backend string       `mapstructure:"backend"`
	Remote  RemoteConfig `mapstructure:"remote"`
	Local   LocalConfig  `mapstructure:"local"`
	Log     LogConfig    `mapstructure:"log"`
	Actor   string       `mapstructure:"actor"`
	Codes   CodesConfig  `mapstructure:"codes"`
}

// RemoteConfig holds sqlite settings.
type RemoteConfig struct {
	DSN string `mapstructure:"dsn"`
}

// LocalConfig holds badger settings.
type LocalConfig struct {
	Dir      string `mapstructure:"dir"`
	InMemory bool   `mapstructure:"in_memory"`
}

// LogConfig holds zap settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CodesConfig bounds code allocation.
type CodesConfig struct {
	MaxAttempts int `mapstructure:"max_attempts"`
}

// Load reads .env from the working directory, then the config file and the
// environment. A missing .env or config file is not an error.
func Load() (*Config, error) {
	return load(".env")
}

func load(dotenv string) (*Config, error) {
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", dotenv, err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	v := viper.New()
	v.SetDefault("backend", BackendLocal)
	v.SetDefault("remote.dsn", filepath.Join(home, ".packtrack", "packtrack.db"))
	v.SetDefault("local.dir", filepath.Join(home, ".packtrack", "local"))
	v.SetDefault("local.in_memory", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("actor", "")
	v.SetDefault("codes.max_attempts", codegen.DefaultMaxAttempts)

	v.SetConfigType("toml")
	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "packtrack"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that have a fixed set of values.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendRemote, BackendLocal:
	default:
		return errs.Newf(errs.ErrValidation, "unknown backend %q (want %s or %s)", c.Backend, BackendRemote, BackendLocal)
	}
	if c.Codes.MaxAttempts < 1 {
		return errs.Newf(errs.ErrValidation, "codes.max_attempts must be at least 1 (got %d)", c.Codes.MaxAttempts)
	}
	return nil
}
