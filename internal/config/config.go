// Package config reads the optional YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// Config holds settings shared by every command. Zero values mean "use the default".
type Config struct {
	Device      string `yaml:"device"`
	AnyChannel  bool   `yaml:"any_channel"`
	Beep        string `yaml:"beep"`
	BeepWave    string `yaml:"beep_wave"`
	BeepEnabled *bool  `yaml:"beep_enabled"`
	Store       string `yaml:"store"`

	// Keys bounds the drawn keyboard. Either end may be left unset.
	Keys struct {
		Low  *int `yaml:"low"`
		High *int `yaml:"high"`
	} `yaml:"keys"`

	Log struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads path. A missing file yields an empty Config.
func Load(path string) (*Config, error) {
	cfg := new(Config)
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config at %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.SetStrict(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config at %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config at %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the key range.
func (c *Config) Validate() error {
	for _, k := range []*int{c.Keys.Low, c.Keys.High} {
		if k != nil && (*k < 0 || *k > 127) {
			return fmt.Errorf("keys must be within 0..127, got %d", *k)
		}
	}
	if c.Keys.Low != nil && c.Keys.High != nil && *c.Keys.Low > *c.Keys.High {
		return fmt.Errorf("keys.low %d is above keys.high %d", *c.Keys.Low, *c.Keys.High)
	}
	return nil
}

// BeepOn reports the configured beep checkbox state, defaulting to on.
func (c *Config) BeepOn() bool {
	if c.BeepEnabled == nil {
		return true
	}
	return *c.BeepEnabled
}

// DefaultPath is the config file under the user's config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "midireg.yml"
	}
	return filepath.Join(dir, "midireg", "config.yml")
}
