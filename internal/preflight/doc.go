// Package preflight checks the filesystem before an organize run.
//
// The CLI runs RunAll before planning: the profiles directory must be
// readable, and the output and state directories (or their nearest existing
// ancestor) must be writable. A configured catalog document must exist.
package preflight
