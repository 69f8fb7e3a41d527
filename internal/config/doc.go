// Package config loads server settings from MEDLEX_* environment variables,
// an optional .env file and an optional config.yaml, then validates them with
// struct tags before any component sees them.
package config
