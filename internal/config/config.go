// Package config loads the pixel-editor settings.
//
// Values are resolved in increasing order of precedence: built-in defaults,
// the YAML file named by PIXEL_EDITOR_CONFIG, a .env file in the working
// directory, and finally the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvConfigFile  = "PIXEL_EDITOR_CONFIG"
	EnvLogLevel    = "PIXEL_EDITOR_LOG_LEVEL"
	EnvLogFile     = "PIXEL_EDITOR_LOG_FILE"
	EnvMaxPixels   = "PIXEL_EDITOR_MAX_PIXELS"
	EnvJPEGQuality = "PIXEL_EDITOR_JPEG_QUALITY"
	EnvPreviewSize = "PIXEL_EDITOR_PREVIEW_SIZE"
)

// DefaultEnvFile is read by Load when present.
const DefaultEnvFile = ".env"

// MaxPreviewSize bounds the longest side of an image_preview thumbnail.
const MaxPreviewSize = 4096

// Config holds the server settings.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// LogFile, when set, receives a copy of the log with rotation.
	LogFile string `yaml:"log_file"`

	// MaxPixels caps width*height of any image a session allocates.
	MaxPixels int64 `yaml:"max_pixels"`

	// JPEGQuality is the encoder quality for the JPEG format, 1-100.
	JPEGQuality int `yaml:"jpeg_quality"`

	// PreviewSize is the default longest side of image_preview output.
	PreviewSize int `yaml:"preview_size"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:    "info",
		MaxPixels:   100_000_000,
		JPEGQuality: 90,
		PreviewSize: 256,
	}
}

// Load resolves the configuration using DefaultEnvFile.
func Load() (*Config, error) {
	return LoadWithEnvFile(DefaultEnvFile)
}

// LoadWithEnvFile resolves the configuration, reading dotenv values from
// envFile. A missing envFile is not an error; an empty name skips it.
//
// The .env file is only consulted for keys the process environment does not
// define, and it is never written back into the environment.
func LoadWithEnvFile(envFile string) (*Config, error) {
	dotenv := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			dotenv = m
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	cfg := Default()
	if path, ok := lookup(EnvConfigFile); ok && path != "" {
		if err := cfg.mergeYAML(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvLogFile); ok {
		c.LogFile = v
	}
	if v, ok := lookup(EnvMaxPixels); ok && v != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxPixels, err)
		}
		c.MaxPixels = n
	}
	if v, ok := lookup(EnvJPEGQuality); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvJPEGQuality, err)
		}
		c.JPEGQuality = n
	}
	if v, ok := lookup(EnvPreviewSize); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPreviewSize, err)
		}
		c.PreviewSize = n
	}
	return nil
}

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.MaxPixels <= 0 {
		return fmt.Errorf("max pixels must be positive, got %d", c.MaxPixels)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality must be 1-100, got %d", c.JPEGQuality)
	}
	if c.PreviewSize < 1 || c.PreviewSize > MaxPreviewSize {
		return fmt.Errorf("preview size must be 1-%d, got %d", MaxPreviewSize, c.PreviewSize)
	}
	return nil
}
