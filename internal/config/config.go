// Package config loads masa settings from a YAML file, the environment and
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/roach88/masa/internal/alias"
	"github.com/roach88/masa/internal/ir"
	"github.com/roach88/masa/internal/registry"
)

// Lookup settings for the config file.
const (
	EnvPrefix = "MASA"
	FileName  = "masa"
	LocalDir  = ".masa"
)

// Keys of the settings, as they appear in the YAML file.
const (
	KeyPrecision   = "precision"
	KeyFailureMode = "failure_mode"
	KeyAliasFile   = "alias_file"
	KeyLogLevel    = "log_level"
	KeyDB          = "db"
)

// Config holds the resolved settings.
type Config struct {
	Precision   string `mapstructure:"precision"`
	FailureMode string `mapstructure:"failure_mode"`
	AliasFile   string `mapstructure:"alias_file"`
	LogLevel    string `mapstructure:"log_level"`
	DB          string `mapstructure:"db"`
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() Config {
	return Config{
		Precision:   string(ir.PrecisionDouble),
		FailureMode: registry.PolicyReturn.String(),
		LogLevel:    "info",
	}
}

// SetDefaults registers every key with its default so environment
// variables are seen by Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault(KeyPrecision, d.Precision)
	v.SetDefault(KeyFailureMode, d.FailureMode)
	v.SetDefault(KeyAliasFile, d.AliasFile)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyDB, d.DB)
}

// Load resolves the configuration held by v. An explicit file must exist.
// Otherwise masa.yaml is looked up in ./.masa and then in
// $HOME/.config/masa, and a missing file is not an error. Flags bound to v
// with BindPFlag take precedence over the environment, which takes
// precedence over the file.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(LocalDir)
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", FileName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every enumerated setting.
func (c Config) Validate() error {
	if _, err := c.PrecisionTag(); err != nil {
		return fmt.Errorf("%s: %w", KeyPrecision, err)
	}
	if _, err := c.Policy(); err != nil {
		return fmt.Errorf("%s: %w", KeyFailureMode, err)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	return nil
}

// PrecisionTag parses the precision setting.
func (c Config) PrecisionTag() (ir.Precision, error) {
	return ir.ParsePrecision(c.Precision)
}

// Policy parses the failure_mode setting.
func (c Config) Policy() (registry.Policy, error) {
	return registry.ParsePolicy(c.FailureMode)
}

// Level parses the log_level setting ("debug", "info", "warn", "error").
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, err
	}
	return l, nil
}

// Aliases returns the alias table named by alias_file, or the built-in
// table when unset.
func (c Config) Aliases() (*alias.Table, error) {
	if c.AliasFile == "" {
		return alias.Default(), nil
	}
	return alias.Load(c.AliasFile)
}
