package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tinytelemetry/ecslog/internal/render"
)

const (
	defaultFormat       = "default"
	defaultColorScheme  = "default"
	defaultSourceBuffer = 50_000
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	Format       string `mapstructure:"format" yaml:"format"`
	Color        string `mapstructure:"color" yaml:"color"` // "auto", "yes", or "no"
	ColorScheme  string `mapstructure:"color-scheme" yaml:"color-scheme"`
	Level        string `mapstructure:"level" yaml:"level"`
	KQL          string `mapstructure:"kql" yaml:"kql"`
	Strict       bool   `mapstructure:"strict" yaml:"strict"`
	MaxLineLen   int    `mapstructure:"max-line-len" yaml:"max-line-len"`
	SourceBuffer int    `mapstructure:"source-buffer" yaml:"source-buffer"`
	ConfigPath   string `mapstructure:"-" yaml:"-"` // not from config file
}

// loadConfig builds the effective configuration: defaults, then the config
// file, then ECSLOG_* environment variables, then command line flags.
func loadConfig(configPath string, noConfig bool, flags *pflag.FlagSet) (appConfig, error) {
	var cfg appConfig

	v := viper.New()
	v.SetEnvPrefix("ECSLOG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("format", defaultFormat)
	v.SetDefault("color", "auto")
	v.SetDefault("color-scheme", defaultColorScheme)
	v.SetDefault("level", "")
	v.SetDefault("kql", "")
	v.SetDefault("strict", false)
	v.SetDefault("max-line-len", render.DefaultMaxLineLen)
	v.SetDefault("source-buffer", defaultSourceBuffer)

	for _, name := range []string{
		"format", "color", "color-scheme", "level", "kql", "strict", "max-line-len",
	} {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(name, f); err != nil {
				return cfg, err
			}
		}
	}

	if !noConfig {
		if configPath != "" {
			v.SetConfigFile(configPath)
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return cfg, fmt.Errorf("finding home directory: %w", err)
			}
			v.SetConfigFile(filepath.Join(home, ".config", "ecslog", "config.yml"))
		}
		if err := v.ReadInConfig(); err != nil {
			var configFileNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
				return cfg, err
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.ConfigPath = v.ConfigFileUsed()

	switch cfg.Color {
	case "auto", "yes", "no":
	default:
		return cfg, fmt.Errorf("invalid color value %q (expected auto, yes, or no)", cfg.Color)
	}
	if cfg.MaxLineLen <= 0 {
		cfg.MaxLineLen = render.DefaultMaxLineLen
	}
	if cfg.SourceBuffer <= 0 {
		cfg.SourceBuffer = defaultSourceBuffer
	}

	return cfg, nil
}
