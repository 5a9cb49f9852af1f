// Package config defines the application configuration structure and its
// loading logic. Configuration comes from environment variables with the
// CMC_ prefix, optionally layered over a YAML config file, and is
// validated before use.
package config
