// Package organizer turns a directory of vendor-named printer profiles into a
// Device/Brand tree with standardized filenames.
//
// Plan scans the profiles directory, classifies each file with the matcher,
// settles ambiguous devices through the resolver and allocates collision-safe
// names. PDFs are grouped by content so only one copy of each document is
// filed. Execute performs the copies with content verification and rewrites
// the embedded description of each copied ICC profile to its new name. A plan
// can be rendered without executing it, which is how dry runs work.
//
// Export copies an organized tree into the operating system's profile
// directory, and Report summarizes how much of a directory the catalog
// detects.
package organizer
