// Package config loads, normalizes, and validates the TOML configuration
// shared by every tourdata command.
package config
