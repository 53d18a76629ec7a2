// Package config resolves server configuration from command-line flags,
// environment variables, and an optional YAML config file, in that order
// of precedence.
package config
