// Package config loads cargo-tree-tui settings from an optional YAML file
// and CARGO_TREE_TUI_* environment variables.
//
// A file looks like:
//
//	depth: 2
//	charset: ascii
//	show_toggles: false
//	watch: true
//	cargo: /opt/rust/bin/cargo
//	cache:
//	  enabled: true
//	  ttl: 12h
//
// Command-line flags override both sources.
package config

import (
	"fmt"
	"time"

	"github.com/matzehuels/cargotree/pkg/metadata"
	"github.com/matzehuels/cargotree/pkg/render"
)

// Config is the complete set of user settings.
type Config struct {
	// Depth is the initial expansion depth; 0 expands everything.
	Depth       int    `mapstructure:"depth" yaml:"depth"`
	Charset     string `mapstructure:"charset" yaml:"charset"`
	ShowToggles bool   `mapstructure:"show_toggles" yaml:"show_toggles"`
	// Watch reloads the tree when Cargo.toml or Cargo.lock change.
	Watch bool `mapstructure:"watch" yaml:"watch"`
	// Cargo is the cargo binary to run.
	Cargo string      `mapstructure:"cargo" yaml:"cargo"`
	Cache CacheConfig `mapstructure:"cache" yaml:"cache"`
}

// CacheConfig controls the metadata cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL     time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// NewConfig returns the defaults.
func NewConfig() *Config {
	return &Config{
		Depth:       0,
		Charset:     render.CharsetUnicode,
		ShowToggles: true,
		Cargo:       "cargo",
		Cache: CacheConfig{
			Enabled: true,
			TTL:     metadata.DefaultTTL,
		},
	}
}

// ApplyDefaults fills empty values.
func (c *Config) ApplyDefaults() {
	if c.Charset == "" {
		c.Charset = render.CharsetUnicode
	}
	if c.Cargo == "" {
		c.Cargo = "cargo"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = metadata.DefaultTTL
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Depth < 0 {
		return fmt.Errorf("depth must be >= 0, got %d", c.Depth)
	}
	if _, err := render.SymbolsFor(c.Charset); err != nil {
		return err
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	return nil
}

// Symbols returns the glyphs for the configured charset. It falls back to
// Unicode when the config was not validated.
func (c *Config) Symbols() render.Symbols {
	sym, err := render.SymbolsFor(c.Charset)
	if err != nil {
		return render.UnicodeSymbols
	}
	return sym
}
