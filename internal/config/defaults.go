package config

const (
	DefaultRegistryHost   = "docker.io"
	DefaultUsernameEnv    = "RELFORGE_REGISTRY_USER"
	DefaultPasswordEnv    = "RELFORGE_REGISTRY_TOKEN"
	DefaultVersionCommand = "python"
	DefaultParallelism    = 4
	DefaultRuntime        = "auto"
	DefaultLedgerPath     = ".relforge/history.db"
	DefaultLogLevel       = "info"
)

// DefaultVersionArgs returns the default metadata query arguments.
func DefaultVersionArgs() []string {
	return []string{"setup.py", "--version"}
}

// DefaultConfig returns a Config with all default values applied.
func DefaultConfig() *Config {
	return &Config{
		Registry: RegistryConfig{
			Host:        DefaultRegistryHost,
			UsernameEnv: DefaultUsernameEnv,
			PasswordEnv: DefaultPasswordEnv,
		},
		Version: VersionConfig{
			Command: DefaultVersionCommand,
			Args:    DefaultVersionArgs(),
		},
		Build: BuildConfig{
			Parallelism: DefaultParallelism,
			Runtime:     DefaultRuntime,
		},
		Ledger: LedgerConfig{
			Path: DefaultLedgerPath,
		},
		LogLevel: DefaultLogLevel,
	}
}
