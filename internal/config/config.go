package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/philipparndt/fiducials/internal/mrml"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up by Find
const FileName = "fiducials.yaml"

// Config represents fiducials.yaml
type Config struct {
	Display   mrml.Style `yaml:"display"`
	Placement Placement  `yaml:"placement"`
	Undo      Undo       `yaml:"undo"`
	View      View       `yaml:"view"`
	LogLevel  string     `yaml:"log_level"`
}

// Placement configures click-to-place
type Placement struct {
	NodeName   string `yaml:"node_name"`
	Persistent bool   `yaml:"persistent"`
}

// Undo bounds the undo history
type Undo struct {
	Capacity int `yaml:"capacity"`
}

// View configures the interactive viewers
type View struct {
	Width    int           `yaml:"width"`
	Height   int           `yaml:"height"`
	Size     float64       `yaml:"size"`
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Display:   mrml.DefaultStyle(),
		Placement: Placement{NodeName: "F"},
		Undo:      Undo{Capacity: 50},
		View:      View{Width: 1280, Height: 800, Size: 100, Debounce: 200 * time.Millisecond},
		LogLevel:  "info",
	}
}

// Find walks up from dir looking for fiducials.yaml. It returns an empty
// path when there is none.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every section
func (c Config) Validate() error {
	if err := c.Display.Validate(); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	if c.Placement.NodeName == "" {
		return errors.New("placement.node_name must not be empty")
	}
	if c.Undo.Capacity < 1 {
		return fmt.Errorf("undo.capacity must be at least 1, got %d", c.Undo.Capacity)
	}
	if c.View.Width <= 0 || c.View.Height <= 0 {
		return fmt.Errorf("view size must be positive, got %dx%d", c.View.Width, c.View.Height)
	}
	if c.View.Size <= 0 {
		return fmt.Errorf("view.size must be positive, got %v", c.View.Size)
	}
	if c.View.Debounce < 0 {
		return fmt.Errorf("view.debounce must not be negative, got %v", c.View.Debounce)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses log_level
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
