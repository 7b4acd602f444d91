// Package catalog holds the immutable lookup data the matcher runs against:
// device and brand alias tables, the device remapping table, and the
// priority-ordered filename rules.
//
// A Catalog is built once per run, either from the built-in defaults or from
// a YAML/TOML document, and is shared read-only by every component after
// that. FormatMaterial normalizes extracted material text.
package catalog
