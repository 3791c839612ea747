package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"

	"github.com/brandonbloom/mkf/internal/workspace"
)

// EnvPath overrides the location of the config file.
const EnvPath = "MKF_CONFIG"

// Config captures the user editable defaults stored in config.toml.
// Command-line flags take precedence over every field.
type Config struct {
	Utility     string  `toml:"utility"`
	Suffix      string  `toml:"suffix"`
	EOFMarker   *string `toml:"eof_marker"`
	Placeholder *string `toml:"placeholder"`
	ReopenTTY   bool    `toml:"reopen_tty"`
	TempDir     string  `toml:"temp_dir"`
	LogLevel    string  `toml:"log_level"`
}

var (
	// ErrEmptyPlaceholder indicates a placeholder that would match everywhere.
	ErrEmptyPlaceholder = errors.New("placeholder must not be empty")
	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("log_level must be debug, info, warn, or error")
)

// Default returns the built-in configuration.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Utility == "" {
		c.Utility = "cat"
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	} else {
		c.LogLevel = strings.ToLower(c.LogLevel)
	}
}

// Validate ensures the configuration describes a runnable invocation.
func (c Config) Validate() error {
	if err := workspace.ValidateSuffix(c.Suffix); err != nil {
		return err
	}
	if c.Placeholder != nil && *c.Placeholder == "" {
		return ErrEmptyPlaceholder
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (zapcore.Level, error) {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return zapcore.InvalidLevel, fmt.Errorf("%w (got %q)", ErrInvalidLogLevel, c.LogLevel)
	}
	return zapcore.ParseLevel(c.LogLevel)
}

// Path reports where the config file is expected. An empty result means no
// location could be determined.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mkf", "config.toml")
}

// Load reads configuration from disk. Missing files return a default config.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, err
	}

	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}
