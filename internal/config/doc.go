// Package config loads, normalizes, and validates profileorg configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and derives the preference cache locations from the profiles
// directory when they are not set explicitly. The PROFILEORG_CATALOG variable
// supplies the rule catalog path when the file leaves it empty.
//
// Always obtain settings through this package so downstream code receives
// absolute paths and canonical log settings.
package config
