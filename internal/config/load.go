package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("config: invalid value")

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path takes priority over the standard locations
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads defaults overridden by a single file, ignoring flags.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks numeric ranges. Names are checked when the brush is built.
func (c *Config) Validate() error {
	switch {
	case c.Brush.Segments < 1:
		return fmt.Errorf("brush.segments %d: %w", c.Brush.Segments, ErrInvalid)
	case c.Brush.SmoothIterations < 0:
		return fmt.Errorf("brush.smooth_iterations %d: %w", c.Brush.SmoothIterations, ErrInvalid)
	case c.Brush.Radius <= 0:
		return fmt.Errorf("brush.radius %g: %w", c.Brush.Radius, ErrInvalid)
	case c.Brush.DisconnectedDistanceMax < 0:
		return fmt.Errorf("brush.disconnected_distance_max %g: %w", c.Brush.DisconnectedDistanceMax, ErrInvalid)
	case c.Symmetry.ClipTolerance < 0:
		return fmt.Errorf("symmetry.clip_tolerance %g: %w", c.Symmetry.ClipTolerance, ErrInvalid)
	case c.Performance.Workers < 0:
		return fmt.Errorf("performance.workers %d: %w", c.Performance.Workers, ErrInvalid)
	case c.Performance.LeafSize < 1:
		return fmt.Errorf("performance.leaf_size %d: %w", c.Performance.LeafSize, ErrInvalid)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./posebrush.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Posebrush")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Posebrush")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "posebrush")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "posebrush")
	}
}

// loadFromFile merges a YAML file into cfg. Unknown keys are rejected so a
// misspelled brush option does not silently keep its default.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
