// Package config loads, normalizes, and validates prick configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PRICK_LOG_LEVEL. The Config type centralizes every knob the CLI and the
// library scanner need: where the fingerprint catalog lives, which demuxer
// and hash to use, and how progress and logging behave.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical names, and clear validation errors.
package config
