// Package textutil holds the small string helpers shared by the organizer and
// the scan report: path segment sanitizing and filename token splitting.
package textutil
