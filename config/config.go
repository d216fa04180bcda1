// Package config loads the launchdex search configuration. The engine
// consumes it as a read-only value; editing the file takes effect on the
// next StartIndexing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Config is the persisted search configuration.
type Config struct {
	Scopes        []string `mapstructure:"scopes"`         // root directories to index
	ExcludedPaths []string `mapstructure:"excluded_paths"` // absolute path prefixes to skip
	ExcludedNames []string `mapstructure:"excluded_names"` // folder/file names to skip anywhere
	Patterns      []string `mapstructure:"patterns"`       // doublestar glob exclusions
	ResyncMinutes int      `mapstructure:"resync_minutes"` // periodic full regather; 0 disables
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "launchdex", "config.yaml")
}

// Load reads the config file at path, or defaults when the file is absent.
// A present-but-broken file is an error: silently indexing the wrong scopes
// would be worse than refusing to start.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	home, _ := os.UserHomeDir()
	v.SetDefault("scopes", defaultScopes(home))
	v.SetDefault("excluded_paths", []string{})
	v.SetDefault("excluded_names", []string{})
	v.SetDefault("patterns", []string{})
	v.SetDefault("resync_minutes", 30)

	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// normalize expands ~ in scope paths, drops empty entries, and removes
// duplicates while keeping order.
func (c *Config) normalize() {
	home, _ := os.UserHomeDir()
	expand := func(p string) string {
		if p == "~" {
			return home
		}
		if len(p) > 1 && p[0] == '~' && p[1] == '/' {
			return filepath.Join(home, p[2:])
		}
		return p
	}

	c.Scopes = lo.Uniq(lo.FilterMap(c.Scopes, func(p string, _ int) (string, bool) {
		if p == "" {
			return "", false
		}
		return filepath.Clean(expand(p)), true
	}))
	c.ExcludedPaths = lo.Uniq(lo.FilterMap(c.ExcludedPaths, func(p string, _ int) (string, bool) {
		if p == "" {
			return "", false
		}
		return filepath.Clean(expand(p)), true
	}))
	c.ExcludedNames = lo.Uniq(lo.Compact(c.ExcludedNames))
	c.Patterns = lo.Uniq(lo.Compact(c.Patterns))
}

// defaultScopes are the places a desktop launcher should look when the user
// has not configured anything: the application directories and the home
// folder.
func defaultScopes(home string) []string {
	scopes := []string{
		"/usr/share/applications",
		filepath.Join(home, ".local", "share", "applications"),
		"/Applications",
		home,
	}
	return lo.Filter(scopes, func(p string, _ int) bool {
		info, err := os.Stat(p)
		return err == nil && info.IsDir()
	})
}
