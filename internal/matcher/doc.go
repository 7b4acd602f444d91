// Package matcher classifies profile filenames against a catalog.
//
// Match walks the catalog's rules in descending priority and returns the
// first (device, brand, material) triple whose rule resolves a device.
// Candidates lists every device alias found literally in a name; the
// resolver uses it to detect ambiguous filenames.
package matcher
