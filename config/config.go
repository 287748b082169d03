// Package config loads the optional .osuparse.yaml file.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const DefaultPath = ".osuparse.yaml"

type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Serve   ServeConfig   `yaml:"serve"`
}

type CatalogConfig struct {
	Path    string `yaml:"path"`
	Workers int    `yaml:"workers"`
}

// FetchConfig bounds requests to the beatmap mirror: at most RateLimit
// requests per Cooldown, MaxConcurrent of them in flight.
type FetchConfig struct {
	BaseURL       string        `yaml:"base_url"`
	UserAgent     string        `yaml:"user_agent"`
	Timeout       time.Duration `yaml:"timeout"`
	RateLimit     int           `yaml:"rate_limit"`
	Cooldown      time.Duration `yaml:"cooldown"`
	MaxConcurrent int           `yaml:"max_concurrent"`
}

type ServeConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

func Default() Config {
	return Config{
		Catalog: CatalogConfig{
			Path:    "osuparse.db",
			Workers: 4,
		},
		Fetch: FetchConfig{
			BaseURL:       "https://osu.ppy.sh",
			UserAgent:     "osuparse",
			Timeout:       time.Minute,
			RateLimit:     30,
			Cooldown:      time.Minute,
			MaxConcurrent: 2,
		},
		Serve: ServeConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
	}
}

// Load reads path over the defaults. A missing file is not an error; keys the
// file leaves out keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.UnmarshalStrict(content, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.Catalog.Workers < 1:
		return errors.Errorf("catalog.workers must be at least 1, got %d", c.Catalog.Workers)
	case c.Fetch.RateLimit < 1:
		return errors.Errorf("fetch.rate_limit must be at least 1, got %d", c.Fetch.RateLimit)
	case c.Fetch.Cooldown <= 0:
		return errors.New("fetch.cooldown must be positive")
	case c.Fetch.MaxConcurrent < 1:
		return errors.Errorf("fetch.max_concurrent must be at least 1, got %d", c.Fetch.MaxConcurrent)
	}
	return nil
}
