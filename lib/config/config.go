// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/safekey/lib/messageformat"
	"github.com/bureau-foundation/safekey/lib/sealed"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for workstations and tests.
	Development Environment = "development"
	// Production is for hosts that handle real secrets.
	Production Environment = "production"
)

// Config is the safekey configuration.
type Config struct {
	// Environment selects which override section applies.
	Environment Environment `yaml:"environment"`

	// Log configures the command logger.
	Log LogConfig `yaml:"log"`

	// Seal holds the defaults for `safekey seal`.
	Seal SealConfig `yaml:"seal"`

	// Open holds the defaults for `safekey open`.
	Open OpenConfig `yaml:"open"`

	Development *ConfigOverrides `yaml:"development,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Log  *LogConfig  `yaml:"log,omitempty"`
	Seal *SealConfig `yaml:"seal,omitempty"`
	Open *OpenConfig `yaml:"open,omitempty"`
}

// LogConfig configures the command logger.
type LogConfig struct {
	// Level is a slog level name: debug, info, warn or error.
	// Default: warn
	Level string `yaml:"level"`

	// Format is "text", "json", or "auto" (text on a terminal, JSON
	// otherwise).
	// Default: auto
	Format string `yaml:"format"`
}

// SealConfig holds the defaults for sealing.
type SealConfig struct {
	// Recipients are age public keys (age1...) every secret is sealed
	// to in addition to those given with --recipient. Typically an
	// escrow key.
	Recipients []string `yaml:"recipients"`

	// Format is the envelope encoding written by seal.
	// Default: json
	Format string `yaml:"format"`
}

// OpenConfig holds the defaults for opening.
type OpenConfig struct {
	// IdentityFile is the age identity file used when --identity is
	// not given. ${VAR} and ${VAR:-default} are expanded.
	IdentityFile string `yaml:"identity_file"`

	// Format is the envelope encoding read by open.
	// Default: json
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given, and the
// base that a file is merged into.
func Default() *Config {
	return &Config{
		Environment: Development,
		Log: LogConfig{
			Level:  "warn",
			Format: "auto",
		},
		Seal: SealConfig{
			Format: string(messageformat.JSON),
		},
		Open: OpenConfig{
			IdentityFile: "${SAFEKEY_IDENTITY:-${HOME}/.config/safekey/identity.txt}",
			Format:       string(messageformat.JSON),
		},
	}
}

// EnvironmentVariable names the variable Load reads the config path from.
const EnvironmentVariable = "SAFEKEY_CONFIG"

// Load loads the file named by SAFEKEY_CONFIG. When the variable is not
// set it returns Default with variables expanded; safekey runs without a
// config file.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		cfg := Default()
		cfg.applyEnvironmentOverrides()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// Environment variables do not override config values. The only
// expansion performed is ${VAR} substitution in path fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, c)
}

// applyEnvironmentOverrides applies the section matching Environment.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Production:
		overrides = c.Production
		// Production defaults: machine-readable logs.
		if overrides == nil {
			overrides = &ConfigOverrides{
				Log: &LogConfig{Format: "json"},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Log != nil {
		if overrides.Log.Level != "" {
			c.Log.Level = overrides.Log.Level
		}
		if overrides.Log.Format != "" {
			c.Log.Format = overrides.Log.Format
		}
	}

	if overrides.Seal != nil {
		// Recipients replace rather than extend: an environment that
		// escrows to a different key must not also escrow to the base one.
		if overrides.Seal.Recipients != nil {
			c.Seal.Recipients = overrides.Seal.Recipients
		}
		if overrides.Seal.Format != "" {
			c.Seal.Format = overrides.Seal.Format
		}
	}

	if overrides.Open != nil {
		if overrides.Open.IdentityFile != "" {
			c.Open.IdentityFile = overrides.Open.IdentityFile
		}
		if overrides.Open.Format != "" {
			c.Open.Format = overrides.Open.Format
		}
	}
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Open.IdentityFile = expandVars(c.Open.IdentityFile, vars)
}

// varPattern matches ${VAR} and ${VAR:-default}. A default may itself
// contain one level of ${VAR}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-((?:[^}$]|\$\{[^}]*\})*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return expandVars(defaultValue, vars)
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	logFormats := []string{"auto", "text", "json"}
	if !slices.Contains(logFormats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %v", logFormats))
	}

	for _, recipient := range c.Seal.Recipients {
		if err := sealed.ParseRecipient(recipient); err != nil {
			errs = append(errs, fmt.Errorf("seal.recipients: %w", err))
		}
	}
	if _, err := messageformat.ParseFormat(c.Seal.Format); err != nil {
		errs = append(errs, fmt.Errorf("seal.format: %w", err))
	}
	if _, err := messageformat.ParseFormat(c.Open.Format); err != nil {
		errs = append(errs, fmt.Errorf("open.format: %w", err))
	}

	if c.Open.IdentityFile != "" && !filepath.IsAbs(c.Open.IdentityFile) {
		errs = append(errs, fmt.Errorf("open.identity_file must be an absolute path, got %q", c.Open.IdentityFile))
	}

	return errors.Join(errs...)
}

// LogLevel returns Log.Level as a slog.Level. Call Validate first; an
// unparseable level yields slog.LevelWarn.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelWarn
	}
	return level
}
