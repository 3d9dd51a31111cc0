// Package config loads, normalizes, and validates qurandb configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI needs: data/database directories, the CDN endpoint, download
// batching and concurrency limits, SQLite pragmas, and logging options.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
