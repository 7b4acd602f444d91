// Command profileorg organizes printer ICC profiles and their PDF targets into
// a Device/Brand tree with standardized names.
//
// organize plans a run and prints it; --execute performs it. match, scan and
// dedupe inspect filenames and directories without copying anything. prefs
// manages the learned device choices for ambiguous filenames, catalog writes
// or inspects the rule catalog and describe reads or rewrites the embedded
// description of one profile.
package main
