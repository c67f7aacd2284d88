// Package config loads cmd/protosniff's runtime configuration from an
// optional file, environment variables, and built-in defaults via Viper,
// mirroring the precedence rules of the teacher's internal/config package.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds cmd/protosniff's runtime configuration: which protocols to
// try, in what order, how deep to inspect, and where to expose metrics.
type Config struct {
	Protocols       []string `mapstructure:"protocols"`
	Priority        []string `mapstructure:"priority"`
	MaxInspectBytes int      `mapstructure:"max_inspect_bytes"`
	Transport       string   `mapstructure:"transport"`
	MetricsAddr     string   `mapstructure:"metrics_addr"`
}

// Load reads configuration from configPath (if non-empty), overlays
// environment variables under the PROTOSNIFF_ prefix, and falls back to
// built-in defaults for anything left unset.
func Load(configPath string) (*Config, error) {
	viper.SetDefault("protocols", []string{"all"})
	viper.SetDefault("priority", []string{})
	viper.SetDefault("max_inspect_bytes", 64)
	viper.SetDefault("transport", "unknown")
	viper.SetDefault("metrics_addr", "")

	if configPath != "" {
		viper.SetConfigFile(configPath)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	viper.SetEnvPrefix("PROTOSNIFF")
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the loaded configuration for internal consistency.
func (c *Config) Validate() error {
	if c.MaxInspectBytes < 0 {
		return fmt.Errorf("max_inspect_bytes must be >= 0")
	}
	switch c.Transport {
	case "unknown", "tcp", "udp":
	default:
		return fmt.Errorf("transport must be one of unknown, tcp, udp, got %q", c.Transport)
	}
	return nil
}
