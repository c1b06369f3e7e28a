// Package config handles loading and parsing of configuration from YAML files
// and environment variables. It defines the application configuration structure
// including the watched service list, probe timing, status API address and
// logging settings.
package config
