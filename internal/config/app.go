package config

import (
	"fmt"
	"net"
	"time"

	"github.com/rennerdo30/proxy-toggle/internal/logging"
)

// AppConfig is the main configuration for Proxy Toggle.
type AppConfig struct {
	Profiles ProfilesConfig `yaml:"profiles" json:"profiles"`
	API      APIConfig      `yaml:"api" json:"api"`
	Tray     TrayConfig     `yaml:"tray" json:"tray"`
	Metrics  MetricsConfig  `yaml:"metrics" json:"metrics"`
	Refresh  RefreshConfig  `yaml:"refresh" json:"refresh"`
	Logging  logging.Config `yaml:"logging" json:"logging"`
}

// ProfilesConfig locates the profiles file.
type ProfilesConfig struct {
	// Path of the profiles JSON file. Empty means the default
	// per-user location.
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
}

// APIConfig contains settings for the local control API.
type APIConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Listen  string `yaml:"listen" json:"listen"`
	Token   string `yaml:"token,omitempty" json:"token,omitempty"`
}

// TrayConfig contains system tray settings.
type TrayConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// MetricsConfig contains settings for the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// RefreshConfig controls the periodic reconciliation against the OS.
type RefreshConfig struct {
	Interval Duration `yaml:"interval" json:"interval"`
}

// DefaultAppConfig returns a configuration with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		API: APIConfig{
			Enabled: true,
			Listen:  "127.0.0.1:7390",
		},
		Tray: TrayConfig{
			Enabled: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Refresh: RefreshConfig{
			Interval: Duration(5 * time.Second),
		},
		Logging: logging.DefaultConfig(),
	}
}

// Validate validates the configuration.
func (c *AppConfig) Validate() error {
	if c.API.Enabled {
		if _, _, err := net.SplitHostPort(c.API.Listen); err != nil {
			return fmt.Errorf("api listen address must be in host:port format: %w", err)
		}
	}

	if c.Refresh.Interval < 0 {
		return fmt.Errorf("refresh interval must not be negative")
	}
	if c.Refresh.Interval > 0 && time.Duration(c.Refresh.Interval) < time.Second {
		return fmt.Errorf("refresh interval must be at least 1s")
	}

	return nil
}
