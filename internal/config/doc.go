// Package config loads, normalizes, and validates reelscribe configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// REELSCRIBE_API_BIND. The Config type centralizes every knob the daemon and
// CLI need: the data directory that hosts the model cache, the external tool
// binaries, and the transcription settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
