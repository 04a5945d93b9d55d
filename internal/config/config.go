package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/relforge/relforge/internal/variant"
)

// Config holds all configuration for relforge.
// It is immutable after creation via LoadConfig().
type Config struct {
	// Registry identifies the push target
	Registry RegistryConfig `yaml:"registry"`

	// Version controls how the release version is resolved
	Version VersionConfig `yaml:"version"`

	// Build controls build execution
	Build BuildConfig `yaml:"build"`

	// Variants overrides the built-in variant registry when non-empty
	Variants []VariantConfig `yaml:"variants,omitempty"`

	// Ledger contains run-history settings
	Ledger LedgerConfig `yaml:"ledger"`

	// LogLevel controls log verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`
}

// RegistryConfig identifies the container registry.
type RegistryConfig struct {
	// Host is the registry host (e.g. "docker.io")
	Host string `yaml:"host"`

	// Repository is the target repository (e.g. "acme/trainer")
	Repository string `yaml:"repository"`

	// UsernameEnv names the environment variable holding the
	// registry username. Credentials are never stored in the file.
	UsernameEnv string `yaml:"username_env"`

	// PasswordEnv names the environment variable holding the
	// registry password or token
	PasswordEnv string `yaml:"password_env"`
}

// Username reads the registry username from the environment.
func (r RegistryConfig) Username() string { return os.Getenv(r.UsernameEnv) }

// Password reads the registry password from the environment.
func (r RegistryConfig) Password() string { return os.Getenv(r.PasswordEnv) }

// VersionConfig controls version resolution.
type VersionConfig struct {
	// Command is the metadata binary to invoke
	Command string `yaml:"command"`

	// Args are passed to Command; the invocation must print the
	// version as a single line
	Args []string `yaml:"args"`
}

// BuildConfig controls build execution.
type BuildConfig struct {
	// Parallelism is the maximum concurrent variant builds
	Parallelism int `yaml:"parallelism"`

	// Runtime selects the container runtime: "auto", "docker" or "podman"
	Runtime string `yaml:"runtime"`
}

// VariantConfig describes one image variant in the config file.
type VariantConfig struct {
	Name        string `yaml:"name"`
	Context     string `yaml:"context"`
	Dockerfile  string `yaml:"dockerfile,omitempty"`
	TagTemplate string `yaml:"tag_template"`
}

// LedgerConfig controls run-history persistence.
type LedgerConfig struct {
	// Path is the SQLite database file; relative paths resolve
	// against the project root
	Path string `yaml:"path"`
}

// VariantSpecs returns the variants to release: the config file's
// list when present, the built-in registry otherwise.
func (c *Config) VariantSpecs() []variant.Spec {
	if len(c.Variants) == 0 {
		return variant.List()
	}
	specs := make([]variant.Spec, 0, len(c.Variants))
	for _, v := range c.Variants {
		specs = append(specs, variant.Spec{
			Name:        v.Name,
			ContextPath: v.Context,
			Dockerfile:  v.Dockerfile,
			TagTemplate: v.TagTemplate,
		})
	}
	return specs
}

// LoadConfig loads configuration from the project root.
// It applies defaults, then file values, then environment overrides,
// then validates.
//
// Parameters:
//   - root: absolute path to the project root directory
//
// Returns the validated Config or an error if validation fails.
func LoadConfig(root string) (*Config, error) {
	cfg := DefaultConfig()

	// Try to load config file (optional)
	configPath := filepath.Join(root, ".relforge.yaml")
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	// Note: missing config file is not an error (use defaults)

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Resolve relative ledger path
	if cfg.Ledger.Path != "" && !filepath.IsAbs(cfg.Ledger.Path) {
		cfg.Ledger.Path = filepath.Join(root, cfg.Ledger.Path)
	}

	// Validate
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}
