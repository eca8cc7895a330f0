package config

// Default configuration values.
const (
	DefaultBindAddress   = ":67"
	DefaultLogLevel      = "info"
	DefaultDB            = "/var/lib/dhcpwatch/observations.db"
	DefaultMetricsListen = "0.0.0.0:9167"
)
