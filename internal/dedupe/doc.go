// Package dedupe groups files by SHA-256 content hash. The first path seen
// for a hash is its keeper; later paths are duplicates of it.
package dedupe
