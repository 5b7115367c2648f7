// Package config handles regvm.toml configuration files.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileName is the default configuration file name.
const FileName = "regvm.toml"

// Config represents a regvm.toml file.
type Config struct {
	Log      Log      `toml:"log"`
	Match    Match    `toml:"match"`
	Compile  Compile  `toml:"compile"`
	Generate Generate `toml:"generate"`

	// Path is the file the configuration was loaded from (set at load time).
	Path string `toml:"-"`
}

// Log configures the commonlog backend.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	Path      string `toml:"path"`
}

// Match selects the default matching mode.
type Match struct {
	Mode string `toml:"mode"`
}

// Compile configures program generation.
type Compile struct {
	MaxInstructions int `toml:"max-instructions"`
}

// Generate configures Go source emission.
type Generate struct {
	Package string `toml:"package"`
	Name    string `toml:"name"`
	NoPool  bool   `toml:"no-pool"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Match: Match{Mode: "anchored"},
		Generate: Generate{
			Package: "matchers",
			Name:    "Pattern",
		},
	}
}

// Load parses a configuration file. Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	c.Path = path

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return c, nil
}

// LoadOptional loads path if it exists and returns Default otherwise.
func LoadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	switch c.Match.Mode {
	case "", "anchored", "full", "search":
	default:
		return fmt.Errorf("unknown match mode %q", c.Match.Mode)
	}
	if c.Compile.MaxInstructions < 0 {
		return fmt.Errorf("max-instructions cannot be negative")
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("log verbosity cannot be negative")
	}
	return nil
}
