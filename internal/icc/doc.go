// Package icc rewrites the description tag of ICC profiles in place.
//
// Only the header signature, the tag table and the 'desc' tag are read. A
// patch never changes the file length, so no other tag offset moves: a new
// description that does not fit the existing tag span is truncated.
package icc
