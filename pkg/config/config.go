// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/user/framepick/pkg/adapters/yamlprefs"
	"github.com/user/framepick/pkg/ports"
	"github.com/user/framepick/pkg/sampler"
)

// MaxQuality is the largest ffmpeg -q:v value for JPEG output.
const MaxQuality = 31

// Validation errors.
var (
	ErrInvalidFrames   = errors.New("frames must not be negative")
	ErrInvalidQuality  = fmt.Errorf("quality must be between 1 and %d", MaxQuality)
	ErrInvalidLogLevel = errors.New("log_level must be one of debug, info, warn, error, quiet")
)

// Config represents the full configuration for framepick.
type Config struct {
	// Output
	OutputDir string `yaml:"output_dir"`
	Naming    string `yaml:"naming"`

	// Extraction
	Frames  int `yaml:"frames"`
	Quality int `yaml:"quality"`

	// Toolchain
	BinDir string `yaml:"bin_dir"`

	// Preferences file shared with earlier runs
	PrefsPath string `yaml:"prefs_path"`

	// Logging
	LogLevel string `yaml:"log_level"`
	Progress bool   `yaml:"progress"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Naming:    string(sampler.NamingCoded),
		Frames:    300,
		Quality:   sampler.DefaultQuality,
		PrefsPath: yamlprefs.DefaultPath,
		LogLevel:  ports.LevelInfo.String(),
	}
}

// LoadFromFile loads configuration from a YAML file. Keys absent from the
// file keep their default values.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks value ranges. A blank output directory is allowed; the
// caller falls back to the saved session.
func (c Config) Validate() error {
	if c.Frames < 0 {
		return ErrInvalidFrames
	}
	if c.Quality < 1 || c.Quality > MaxQuality {
		return ErrInvalidQuality
	}
	if _, err := sampler.ParseNaming(c.Naming); err != nil {
		return err
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "quiet":
	default:
		return ErrInvalidLogLevel
	}
	return nil
}

// NamingScheme returns the parsed naming scheme.
func (c Config) NamingScheme() sampler.Naming {
	n, err := sampler.ParseNaming(c.Naming)
	if err != nil {
		return sampler.NamingCoded
	}
	return n
}

// Level returns the parsed log level.
func (c Config) Level() ports.LogLevel {
	return ports.ParseLogLevel(c.LogLevel)
}
