package config

import (
	"errors"
	"fmt"
)

// ValidationError contains details about what failed validation.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config.%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// validateConfig checks all config values for validity.
// Returns nil if valid, or joined errors for all validation failures.
func validateConfig(cfg *Config) error {
	var errs []error

	// Registry.Host must not be empty
	if cfg.Registry.Host == "" {
		errs = append(errs, &ValidationError{
			Field:   "registry.host",
			Value:   cfg.Registry.Host,
			Message: "must not be empty",
		})
	}

	// Registry.Repository must be set (no sensible default exists)
	if cfg.Registry.Repository == "" {
		errs = append(errs, &ValidationError{
			Field:   "registry.repository",
			Value:   cfg.Registry.Repository,
			Message: "must be set",
		})
	}

	// Version.Command must not be empty
	if cfg.Version.Command == "" {
		errs = append(errs, &ValidationError{
			Field:   "version.command",
			Value:   cfg.Version.Command,
			Message: "must not be empty",
		})
	}

	// Build.Parallelism must be >= 1
	if cfg.Build.Parallelism < 1 {
		errs = append(errs, &ValidationError{
			Field:   "build.parallelism",
			Value:   cfg.Build.Parallelism,
			Message: "must be at least 1",
		})
	}

	// Build.Runtime must be one of: auto, docker, podman
	validRuntimes := map[string]bool{
		"auto":   true,
		"docker": true,
		"podman": true,
	}
	if !validRuntimes[cfg.Build.Runtime] {
		errs = append(errs, &ValidationError{
			Field:   "build.runtime",
			Value:   cfg.Build.Runtime,
			Message: "must be one of: auto, docker, podman",
		})
	}

	// Variants[] must be individually valid with unique names
	seen := map[string]bool{}
	for i, spec := range cfg.VariantSpecs() {
		if err := spec.Validate(); err != nil {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("variants[%d]", i),
				Value:   spec.Name,
				Message: err.Error(),
			})
		}
		if seen[spec.Name] {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("variants[%d].name", i),
				Value:   spec.Name,
				Message: "duplicate variant name",
			})
		}
		seen[spec.Name] = true
	}

	// LogLevel must be one of: debug, info, warn, error (case-sensitive)
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		errs = append(errs, &ValidationError{
			Field:   "log_level",
			Value:   cfg.LogLevel,
			Message: "must be one of: debug, info, warn, error",
		})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
