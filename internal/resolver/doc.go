// Package resolver settles filenames that name more than one device.
//
// A filename is ambiguous when alias keys of two or more devices occur in it
// literally. The Resolver answers from the per-file choice cache first, then
// from the learned rules keyed by the candidate set, and finally asks a
// Decider when interactive resolution is enabled. Every learned choice is
// written back to the Store immediately. Unresolved files keep the device the
// matcher picked.
package resolver
