// Package config handles TOML configuration parsing and validation for dhcpwatch.
package config

import (
	"fmt"
	"net"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the top-level configuration for dhcpwatch.
type Config struct {
	Monitor MonitorConfig `toml:"monitor"`
	Metrics MetricsConfig `toml:"metrics"`
}

// MonitorConfig holds the passive listener settings.
type MonitorConfig struct {
	// BindAddress is the UDP address to listen on, ":67" by default.
	BindAddress string `toml:"bind_address"`
	// Interface optionally restricts logging to one interface name;
	// packets arriving elsewhere are still decoded but tagged.
	Interface string `toml:"interface"`
	LogLevel  string `toml:"log_level"`
	// LogFormat is "text" (default) or "json".
	LogFormat string `toml:"log_format"`
	// DB is the path of the BoltDB file holding device and server
	// observations.
	DB string `toml:"db"`
	// ExpectedServers lists DHCP server IPs that are supposed to be
	// on this network. Replies from any other server are flagged.
	ExpectedServers []string `toml:"expected_servers"`
	// LogOptions enables per-option value logging for every packet.
	LogOptions bool `toml:"log_options"`
}

// MetricsConfig holds the Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Listen  string `toml:"listen"`
}

// Load reads, defaults, and validates a TOML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with all defaults applied, used when
// no config file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset fields.
func applyDefaults(cfg *Config) {
	if cfg.Monitor.BindAddress == "" {
		cfg.Monitor.BindAddress = DefaultBindAddress
	}
	if cfg.Monitor.LogLevel == "" {
		cfg.Monitor.LogLevel = DefaultLogLevel
	}
	if cfg.Monitor.DB == "" {
		cfg.Monitor.DB = DefaultDB
	}
	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = DefaultMetricsListen
	}
}

// validate checks the configuration for consistency.
func validate(cfg *Config) error {
	if _, err := net.ResolveUDPAddr("udp4", cfg.Monitor.BindAddress); err != nil {
		return fmt.Errorf("monitor.bind_address %q: %w", cfg.Monitor.BindAddress, err)
	}
	for _, s := range cfg.Monitor.ExpectedServers {
		ip := net.ParseIP(s)
		if ip == nil || ip.To4() == nil {
			return fmt.Errorf("monitor.expected_servers: %q is not an IPv4 address", s)
		}
	}
	return nil
}

// ExpectedServerIPs returns the allowlist as parsed addresses.
func (cfg *Config) ExpectedServerIPs() []net.IP {
	ips := make([]net.IP, 0, len(cfg.Monitor.ExpectedServers))
	for _, s := range cfg.Monitor.ExpectedServers {
		if ip := net.ParseIP(s); ip != nil {
			ips = append(ips, ip.To4())
		}
	}
	return ips
}
