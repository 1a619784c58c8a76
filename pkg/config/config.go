package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/MarcinMoskala/kscript/pkg/cache"
	"github.com/MarcinMoskala/kscript/pkg/manifest"
	"github.com/MarcinMoskala/kscript/pkg/resolver"
)

// Config represents the expandcp configuration file.
type Config struct {
	Cache      ConfigCache      `toml:"cache" yaml:"cache" json:"cache"`
	Resolver   ConfigResolver   `toml:"resolver" yaml:"resolver" json:"resolver"`
	Repository ConfigRepository `toml:"repository" yaml:"repository" json:"repository"`
}

type ConfigCache struct {
	Path string `toml:"path" yaml:"path" json:"path"`
}

type ConfigResolver struct {
	Command string   `toml:"command" yaml:"command" json:"command"`
	Args    []string `toml:"args" yaml:"args" json:"args"`
	Goal    string   `toml:"goal" yaml:"goal" json:"goal"`
}

type ConfigRepository struct {
	ID  string `toml:"id" yaml:"id" json:"id"`
	URL string `toml:"url" yaml:"url" json:"url"`
}

// DefaultConfig constructs a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Cache: ConfigCache{
			Path: cache.DefaultPath(),
		},
		Resolver: ConfigResolver{
			Command: resolver.DefaultCommand,
			Args:    []string{},
			Goal:    resolver.BuildClasspathGoal,
		},
		Repository: ConfigRepository{
			ID:  manifest.DefaultRepositoryID,
			URL: manifest.DefaultRepositoryURL,
		},
	}
}

// Load loads a Config from a .toml, .yaml, .yml or .json file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := decodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("loading config %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate fills empty fields with defaults and checks the repository URL.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = cache.DefaultPath()
	}

	if strings.TrimSpace(c.Resolver.Command) == "" {
		c.Resolver.Command = resolver.DefaultCommand
	}
	if strings.TrimSpace(c.Resolver.Goal) == "" {
		c.Resolver.Goal = resolver.BuildClasspathGoal
	}
	if c.Resolver.Args == nil {
		c.Resolver.Args = []string{}
	}

	if strings.TrimSpace(c.Repository.ID) == "" {
		c.Repository.ID = manifest.DefaultRepositoryID
	}
	c.Repository.URL = strings.TrimSpace(c.Repository.URL)
	if c.Repository.URL == "" {
		c.Repository.URL = manifest.DefaultRepositoryURL
	}
	if !(strings.HasPrefix(c.Repository.URL, "http://") || strings.HasPrefix(c.Repository.URL, "https://") || strings.HasPrefix(c.Repository.URL, "file:")) {
		return fmt.Errorf("repository.url must start with http://, https:// or file: (got %q)", c.Repository.URL)
	}
	if _, err := url.Parse(c.Repository.URL); err != nil {
		return fmt.Errorf("repository.url is not a valid URL (got %q): %w", c.Repository.URL, err)
	}
	if strings.ContainsAny(c.Resolver.Goal, " \t") {
		return errors.New("resolver.goal must be a single goal")
	}

	return nil
}

// ManifestRepository returns the repository to declare in synthesized POMs.
func (c *Config) ManifestRepository() manifest.Repository {
	return manifest.Repository{ID: c.Repository.ID, URL: c.Repository.URL}
}
