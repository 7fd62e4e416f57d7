// Package config loads depend's settings from an optional YAML file,
// DEPEND_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/arsenez2006/depend/internal/env"
	"github.com/arsenez2006/depend/internal/pkgspec"
)

// EnvPrefix prefixes every environment override, e.g. DEPEND_PREFIX.
const EnvPrefix = "DEPEND"

// LocalFile is the config file looked up in the working directory when
// no per-user file exists.
const LocalFile = "depend.yaml"

// Config holds the resolved settings.
type Config struct {
	// Prefix is the install root; it holds src/ and bin/.
	Prefix string `mapstructure:"prefix"`
	// Jobs is the ${jobs} value. Zero picks the host CPU count.
	Jobs    int  `mapstructure:"jobs"`
	Verbose bool `mapstructure:"verbose"`
	// Depth limits fetched history. Zero fetches everything.
	Depth int `mapstructure:"depth"`
	// Packages extend or replace the built-in packages.
	Packages []pkgspec.Spec `mapstructure:"packages"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{Prefix: "./deps", Depth: 1}
}

// Load reads settings into v and decodes them. file, when set, must
// exist; otherwise the per-user file and then LocalFile are tried, and
// finding neither is not an error. Flags bound to v before Load take
// precedence over the environment, which takes precedence over the file.
// Load returns the path of the file it read, if any.
func Load(v *viper.Viper, file string) (*Config, string, error) {
	defaults := Default()
	v.SetDefault("prefix", defaults.Prefix)
	v.SetDefault("jobs", defaults.Jobs)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("depth", defaults.Depth)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	path, err := findConfig(file)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("parse config: %w", err)
	}
	if cfg.Jobs < 0 {
		return nil, "", fmt.Errorf("jobs must not be negative, got %d", cfg.Jobs)
	}
	if cfg.Depth < 0 {
		return nil, "", fmt.Errorf("depth must not be negative, got %d", cfg.Depth)
	}
	return &cfg, path, nil
}

func findConfig(file string) (string, error) {
	if file != "" {
		if _, err := os.Stat(file); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return file, nil
	}
	candidates := []string{LocalFile}
	if userFile, err := env.ConfigFile(); err == nil {
		candidates = append([]string{userFile}, candidates...)
	}
	for _, c := range candidates {
		_, err := os.Stat(c)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("config file: %w", err)
		}
	}
	return "", nil
}
