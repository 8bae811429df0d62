// Package config loads, normalizes, and validates v2t configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and canonicalizes engine, format, and
// language selections. The Config type centralizes every knob the CLI needs
// so output/work directories and external tool names are discovered in one
// pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical engine names, and clear validation errors.
package config
