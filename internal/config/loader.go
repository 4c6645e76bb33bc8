package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	// AppName names the config and state directories.
	AppName = "cargo-tree-tui"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "CARGO_TREE_TUI"
)

// DefaultPath returns $XDG_CONFIG_HOME/cargo-tree-tui/config.yaml, or the
// ~/.config equivalent.
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName, "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.yaml"), nil
}

// Loader reads configuration from a file and the environment.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader with defaults and environment bindings.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default for AutomaticEnv to reach it in Unmarshal.
	def := NewConfig()
	v.SetDefault("depth", def.Depth)
	v.SetDefault("charset", def.Charset)
	v.SetDefault("show_toggles", def.ShowToggles)
	v.SetDefault("watch", def.Watch)
	v.SetDefault("cargo", def.Cargo)
	v.SetDefault("cache.enabled", def.Cache.Enabled)
	v.SetDefault("cache.ttl", def.Cache.TTL)

	return &Loader{v: v}
}

// Load reads path, applies environment overrides and validates the result.
// An empty path means [DefaultPath]; a missing default file is not an error,
// while a missing explicit file is.
func (l *Loader) Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if explicit || !os.IsNotExist(err) {
				return nil, &LoadError{Path: path, Message: "config file not found", Err: err}
			}
		} else {
			l.v.SetConfigFile(path)
			if err := l.v.ReadInConfig(); err != nil {
				return nil, &LoadError{Path: path, Message: "failed to read config file", Err: err}
			}
		}
	}

	cfg := NewConfig()
	if err := l.v.Unmarshal(cfg, viperDecodeHook); err != nil {
		return nil, &LoadError{Path: path, Message: "failed to parse config", Err: err}
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{Path: path, Message: "configuration validation failed", Err: err}
	}
	return cfg, nil
}

// viperDecodeHook parses durations and comma-separated lists.
func viperDecodeHook(dc *mapstructure.DecoderConfig) {
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// LoadError is returned when configuration cannot be loaded.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load is a convenience wrapper around [Loader.Load].
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}
