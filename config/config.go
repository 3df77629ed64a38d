// Package config reads the game's YAML settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds settings for the front ends and the engine.
type Config struct {
	FrameRate     int      `yaml:"frame_rate"`
	SayTicks      int      `yaml:"say_ticks"`
	BubbleTicks   int      `yaml:"bubble_ticks"`
	EncounterOdds int      `yaml:"encounter_odds"`
	Seed          int64    `yaml:"seed"`
	SaveDir       string   `yaml:"save_dir"`
	AssetDirs     []string `yaml:"asset_dirs"`
	Logging       Logging  `yaml:"logging"`
}

// Logging configures the diagnostic logger. Player-facing text never goes
// through it.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file"`   // empty: stderr
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		FrameRate:     40,
		SayTicks:      30,
		BubbleTicks:   30,
		EncounterOdds: 31,
		SaveDir:       "~/.dirt/saves",
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the settings file at path over the defaults. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings are usable.
func (c *Config) Validate() error {
	if c.FrameRate <= 0 {
		return fmt.Errorf("frame_rate must be positive, got %d", c.FrameRate)
	}
	if c.SayTicks <= 0 {
		return fmt.Errorf("say_ticks must be positive, got %d", c.SayTicks)
	}
	if c.BubbleTicks <= 0 {
		return fmt.Errorf("bubble_ticks must be positive, got %d", c.BubbleTicks)
	}
	if c.EncounterOdds < 0 {
		return fmt.Errorf("encounter_odds must not be negative, got %d", c.EncounterOdds)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// SavePath returns the save directory with a leading ~ expanded.
func (c *Config) SavePath() (string, error) {
	return expandHome(c.SaveDir)
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
