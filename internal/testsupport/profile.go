package testsupport

import (
	"encoding/binary"
	"testing"
)

// Profile describes a synthetic ICC profile for tests.
type Profile struct {
	// Description is the initial desc text.
	Description string
	// DescSize is the desc tag span; zero sizes it to fit Description.
	DescSize int
	// NoDescription stores the payload under a 'cprt' entry instead.
	NoDescription bool
	// Trailer is stored after the desc payload under a 'wtpt' entry.
	Trailer []byte
}

type tagEntry struct {
	sig    string
	offset int
	size   int
}

// BuildProfile returns a minimal valid ICC profile: a 128-byte header with the
// acsp signature, a tag table and a textDescription payload.
func BuildProfile(t testing.TB, p Profile) []byte {
	t.Helper()

	descSize := p.DescSize
	if descSize == 0 {
		descSize = (12 + len(p.Description) + 1 + 3) &^ 3
	}
	count := 1
	if p.Trailer != nil {
		count = 2
	}
	dataStart := 132 + 12*count

	entries := []tagEntry{{sig: "desc", offset: dataStart, size: descSize}}
	if p.NoDescription {
		entries[0].sig = "cprt"
	}
	if p.Trailer != nil {
		entries = append(entries, tagEntry{sig: "wtpt", offset: dataStart + descSize, size: len(p.Trailer)})
	}

	total := dataStart + descSize + len(p.Trailer)
	data := make([]byte, total)
	binary.BigEndian.PutUint32(data[0:4], uint32(total))
	copy(data[36:40], "acsp")
	binary.BigEndian.PutUint32(data[128:132], uint32(count))
	for i, e := range entries {
		at := 132 + 12*i
		copy(data[at:at+4], e.sig)
		binary.BigEndian.PutUint32(data[at+4:at+8], uint32(e.offset))
		binary.BigEndian.PutUint32(data[at+8:at+12], uint32(e.size))
	}

	if descSize >= 13 {
		payload := data[dataStart : dataStart+descSize]
		copy(payload[0:4], "desc")
		text := []byte(p.Description)
		if limit := descSize - 13; len(text) > limit {
			text = text[:limit]
		}
		binary.BigEndian.PutUint32(payload[8:12], uint32(len(text)+1))
		copy(payload[12:], text)
	}
	copy(data[dataStart+descSize:], p.Trailer)
	return data
}
