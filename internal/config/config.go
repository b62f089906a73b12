// Package config loads the optional arbor configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/arbor/internal/builder"
	"github.com/aretw0/arbor/internal/presentation/tree"
	"github.com/aretw0/arbor/pkg/domain"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the file looked up when --config is not given.
const DefaultPath = "arbor.yaml"

// Config represents the structure of arbor.yaml.
type Config struct {
	Threshold    int      `yaml:"threshold" json:"threshold"`
	Exclusions   []string `yaml:"exclusions" json:"exclusions"`
	FanOutLimit  int      `yaml:"fan_out_limit" json:"fan_out_limit"`
	Style        string   `yaml:"style" json:"style"`
	ShowStacking bool     `yaml:"show_stacking" json:"show_stacking"`

	// BusAddress skips the accessibility bus lookup when set.
	BusAddress string `yaml:"bus_address" json:"bus_address"`

	// Timeout bounds each remote call ("5s"). Empty means no bound.
	Timeout string `yaml:"timeout" json:"timeout"`

	// Export is a sink URL every snapshot is written to
	// (file:///tmp/tree.json, redis://localhost:6379/0).
	Export string `yaml:"export" json:"export"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	excl := make([]string, 0, 2)
	for _, addr := range domain.DefaultExclusions() {
		excl = append(excl, string(addr))
	}
	return Config{
		Threshold:  domain.DefaultChildThreshold,
		Exclusions: excl,
		Style:      tree.Unicode.Name,
	}
}

// Load reads a configuration file (YAML or JSON). Keys absent from the file
// keep their default. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that cannot be used.
func (c Config) Validate() error {
	if c.Threshold < 0 {
		return fmt.Errorf("threshold must not be negative, got %d", c.Threshold)
	}
	if _, err := tree.StyleByName(c.Style); err != nil {
		return err
	}
	if _, err := c.CallTimeout(); err != nil {
		return err
	}
	return nil
}

// CallTimeout parses Timeout.
func (c Config) CallTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout must not be negative, got %s", d)
	}
	return d, nil
}

// Builder maps the file onto the builder's tunables.
func (c Config) Builder() builder.Config {
	excl := make([]domain.ProcessAddress, 0, len(c.Exclusions))
	for _, e := range c.Exclusions {
		excl = append(excl, domain.ProcessAddress(e))
	}
	return builder.Config{
		ChildThreshold: c.Threshold,
		Exclusions:     excl,
		FanOutLimit:    c.FanOutLimit,
	}
}

// RenderOptions maps the file onto the tree renderer's options.
func (c Config) RenderOptions() (tree.Options, error) {
	style, err := tree.StyleByName(c.Style)
	if err != nil {
		return tree.Options{}, err
	}
	return tree.Options{Style: style, ShowStacking: c.ShowStacking}, nil
}
