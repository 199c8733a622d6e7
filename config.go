package awhina

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Config carries the settings shared by every run: where to store files,
// which sources to try and in what order, and the probe threshold. It is
// constructed once at startup and passed explicitly; nothing in the core
// reads global state.
type Config struct {
	// SaveDir is the root of the local cache tree. Files are stored as
	// {SaveDir}/{model}/{YYYYMMDD}/{localfile}.
	SaveDir string `yaml:"save_dir"`

	// Priority is the default ordered list of source names to search.
	// Nil means "every source the model template defines, in template
	// order". A template source absent from the list is never used.
	Priority []string `yaml:"priority"`

	// MinGribSize is the Content-Length threshold for grib existence
	// probes. Zero selects DefaultMinGribSize.
	MinGribSize int64 `yaml:"min_grib_size"`

	// Client performs all HTTP traffic. Nil selects a client with
	// DefaultFetchTimeout.
	Client *http.Client `yaml:"-"`
}

// DefaultConfig stores under ~/.local/share/awhina and searches every
// template source in template order.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		SaveDir: filepath.Join(home, ".local", "share", "awhina"),
	}
}

// LoadConfig reads a YAML config file. Unset fields keep their defaults.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

func (cfg *Config) minGribSize() int64 {
	if cfg.MinGribSize > 0 {
		return cfg.MinGribSize
	}
	return DefaultMinGribSize
}

func (cfg *Config) httpClient() *http.Client {
	if cfg.Client != nil {
		return cfg.Client
	}
	return &http.Client{Timeout: DefaultFetchTimeout}
}
