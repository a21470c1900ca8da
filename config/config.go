// Package config loads the service configuration from YAML.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/debrief/normalize"
	"github.com/tsawler/debrief/variant"
)

// EnvListen overrides the listen address when set.
const EnvListen = "DEBRIEF_LISTEN"

// Config holds the full debrief configuration.
type Config struct {
	Listen         string            `yaml:"listen"`
	DefaultVariant string            `yaml:"default_variant"`
	Workers        int               `yaml:"workers"`
	MaxUploadMB    int               `yaml:"max_upload_mb"`
	Realm          string            `yaml:"realm"`
	Users          map[string]string `yaml:"users"` // username -> bcrypt hash
	// AllowAnonymous lets the service run without users, with the report
	// endpoints unauthenticated.
	AllowAnonymous bool              `yaml:"allow_anonymous"`
	Variants       []VariantOverride `yaml:"variants"`
}

// VariantOverride adjusts a preset without redefining it.
type VariantOverride struct {
	Name       string   `yaml:"name"`
	Categories []string `yaml:"categories"`
	DateFormat string   `yaml:"date_format"` // numeric | worded | auto
	Canonical  []string `yaml:"canonical"`
	// Weekday prefixes "<date> (<shift>)" entry headings with the Dutch
	// weekday name.
	Weekday *bool `yaml:"weekday"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:         ":8080",
		DefaultVariant: "weekly",
		Workers:        runtime.NumCPU(),
		MaxUploadMB:    32,
		Realm:          "debrief",
	}
}

// Load reads and parses a YAML config file. Returns DefaultConfig merged
// with the file and the environment.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvListen); v != "" {
		c.Listen = v
	}
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen is required")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be > 0")
	}
	if _, err := variant.Lookup(c.DefaultVariant); err != nil {
		return fmt.Errorf("default_variant: %w", err)
	}
	for i, o := range c.Variants {
		if _, err := o.Apply(); err != nil {
			return fmt.Errorf("variants[%d]: %w", i, err)
		}
	}
	return nil
}

// MaxUploadBytes returns the maximum request body size in bytes.
func (c *Config) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) * 1024 * 1024 }

// Variant returns the named preset with any configured override applied.
func (c *Config) Variant(name string) (*variant.Variant, error) {
	if name == "" {
		name = c.DefaultVariant
	}
	for _, o := range c.Variants {
		if o.Name == name {
			return o.Apply()
		}
	}
	return variant.Lookup(name)
}

// Apply returns the preset named by the override with its fields replaced.
func (o VariantOverride) Apply() (*variant.Variant, error) {
	v, err := variant.Lookup(o.Name)
	if err != nil {
		return nil, err
	}
	if len(o.Categories) > 0 {
		v.Categories = append([]string(nil), o.Categories...)
	}
	if o.DateFormat != "" {
		f, err := normalize.ParseFormat(o.DateFormat)
		if err != nil {
			return nil, err
		}
		v.DateFormat = f
	}
	if o.Canonical != nil {
		v.Canonical = append([]string(nil), o.Canonical...)
	}
	if o.Weekday != nil {
		for i := range v.Layouts {
			if v.Layouts[i].Entry == variant.EntryDateShift {
				v.Layouts[i].Weekday = *o.Weekday
			}
		}
	}
	return v, v.Validate()
}
