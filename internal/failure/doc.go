// Package failure defines the error markers shared by every profileorg
// component.
//
// Errors are wrapped with a marker and a stage/operation detail so the
// organizer summary can count failures per category without parsing
// messages. Callers test categories with errors.Is against the exported
// markers.
package failure
