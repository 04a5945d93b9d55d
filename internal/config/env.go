package config

import (
	"os"
	"strconv"
	"strings"
)

// envOverrides maps environment variables to config field setters.
var envOverrides = []struct {
	envVar string
	apply  func(*Config, string)
}{
	{
		envVar: "RELFORGE_REGISTRY",
		apply: func(c *Config, v string) {
			c.Registry.Host = v
		},
	},
	{
		envVar: "RELFORGE_REPOSITORY",
		apply: func(c *Config, v string) {
			c.Registry.Repository = v
		},
	},
	{
		envVar: "RELFORGE_PARALLELISM",
		apply: func(c *Config, v string) {
			// non-numeric values are ignored, keeping the prior setting
			if n, err := strconv.Atoi(v); err == nil {
				c.Build.Parallelism = n
			}
		},
	},
	{
		envVar: "RELFORGE_RUNTIME",
		apply: func(c *Config, v string) {
			c.Build.Runtime = v
		},
	},
	{
		envVar: "RELFORGE_VERSION_COMMAND",
		apply: func(c *Config, v string) {
			// first field is the binary, the rest are its arguments
			fields := strings.Fields(v)
			if len(fields) == 0 {
				return
			}
			c.Version.Command = fields[0]
			c.Version.Args = fields[1:]
		},
	},
	{
		envVar: "RELFORGE_LEDGER_PATH",
		apply: func(c *Config, v string) {
			c.Ledger.Path = v
		},
	},
	{
		envVar: "RELFORGE_LOG_LEVEL",
		apply: func(c *Config, v string) {
			c.LogLevel = v
		},
	},
}

// applyEnvOverrides modifies config in place with environment variable values.
func applyEnvOverrides(cfg *Config) {
	for _, override := range envOverrides {
		if val := os.Getenv(override.envVar); val != "" {
			override.apply(cfg, val)
		}
	}
}
