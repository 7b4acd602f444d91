package icc

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	HeaderSize      = 128
	SignatureOffset = 36
	TagCountOffset  = HeaderSize
	TagTableOffset  = TagCountOffset + 4
	TagEntrySize    = 12

	// MaxDescription is the longest ASCII description written.
	MaxDescription = 255

	descHeaderSize = 12
)

// Magic is the profile file signature stored at SignatureOffset.
const Magic = "acsp"

// DescriptionTag is the signature of the profile description tag.
const DescriptionTag = "desc"

var (
	ErrTooShort      = errors.New("icc: data shorter than header and tag count")
	ErrSignature     = errors.New("icc: missing acsp signature")
	ErrNoDescription = errors.New("icc: no desc tag")
	ErrSpanTooSmall  = errors.New("icc: desc tag too small for a terminator")
	ErrTagBounds     = errors.New("icc: tag extends past end of data")
)

// Tag is one tag table entry.
type Tag struct {
	Signature string
	Offset    uint32
	Size      uint32
}

func (t Tag) end() uint64 { return uint64(t.Offset) + uint64(t.Size) }

// Validate checks the minimum length and the header signature.
func Validate(data []byte) error {
	if len(data) < TagTableOffset {
		return ErrTooShort
	}
	if string(data[SignatureOffset:SignatureOffset+4]) != Magic {
		return ErrSignature
	}
	return nil
}

// Tags returns the complete entries of the tag table in file order. Entries
// the data is too short to hold are left out.
func Tags(data []byte) ([]Tag, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	count := binary.BigEndian.Uint32(data[TagCountOffset:TagTableOffset])
	available := uint32((len(data) - TagTableOffset) / TagEntrySize)
	if count > available {
		count = available
	}
	tags := make([]Tag, 0, count)
	for i := uint32(0); i < count; i++ {
		tags = append(tags, entryAt(data, TagTableOffset+int(i)*TagEntrySize))
	}
	return tags, nil
}

func entryAt(data []byte, at int) Tag {
	return Tag{
		Signature: string(data[at : at+4]),
		Offset:    binary.BigEndian.Uint32(data[at+4 : at+8]),
		Size:      binary.BigEndian.Uint32(data[at+8 : at+12]),
	}
}

// FindTag returns the first entry with the given signature. It reports false
// when the table is truncated before a match or absent.
func FindTag(data []byte, signature string) (Tag, bool) {
	if len(data) < TagTableOffset || len(signature) != 4 {
		return Tag{}, false
	}
	count := binary.BigEndian.Uint32(data[TagCountOffset:TagTableOffset])
	for i := uint32(0); i < count; i++ {
		at := TagTableOffset + int(i)*TagEntrySize
		if at+TagEntrySize > len(data) {
			break
		}
		if string(data[at:at+4]) == signature {
			return entryAt(data, at), true
		}
	}
	return Tag{}, false
}

// UpdateDescription returns a copy of data with the desc tag rewritten to
// text. The result always has the length of data. Text is folded to ASCII and
// capped at MaxDescription; if the payload does not fit the existing span it
// is truncated to fill the span exactly.
func UpdateDescription(data []byte, text string) ([]byte, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	tag, ok := FindTag(data, DescriptionTag)
	if !ok {
		return nil, ErrNoDescription
	}
	if tag.end() > uint64(len(data)) {
		return nil, fmt.Errorf("%w: offset %d size %d, data %d bytes", ErrTagBounds, tag.Offset, tag.Size, len(data))
	}

	ascii := []byte(ASCII(text))
	if len(ascii) > MaxDescription {
		ascii = ascii[:MaxDescription]
	}
	span := int(tag.Size)
	if encodedSize(len(ascii)) > span {
		room := span - descHeaderSize
		if room <= 0 {
			return nil, ErrSpanTooSmall
		}
		if n := room - 1; n < len(ascii) {
			ascii = ascii[:n]
		}
	}

	out := append([]byte(nil), data...)
	payload := out[tag.Offset:tag.end()]
	clear(payload)
	copy(payload[0:4], DescriptionTag)
	binary.BigEndian.PutUint32(payload[8:12], uint32(len(ascii)+1))
	copy(payload[descHeaderSize:], ascii)
	return out, nil
}

// encodedSize is the aligned payload size for n ASCII bytes plus terminator.
func encodedSize(n int) int {
	size := descHeaderSize + n + 1
	return (size + 3) &^ 3
}

// ReadDescription returns the ASCII text of the desc tag.
func ReadDescription(data []byte) (string, error) {
	if err := Validate(data); err != nil {
		return "", err
	}
	tag, ok := FindTag(data, DescriptionTag)
	if !ok {
		return "", ErrNoDescription
	}
	if tag.end() > uint64(len(data)) {
		return "", ErrTagBounds
	}
	if tag.Size < descHeaderSize {
		return "", ErrSpanTooSmall
	}
	payload := data[tag.Offset:tag.end()]
	if string(payload[0:4]) != DescriptionTag {
		return "", fmt.Errorf("icc: desc tag has type %q", payload[0:4])
	}
	count := int(binary.BigEndian.Uint32(payload[8:12]))
	text := payload[descHeaderSize:]
	if count < len(text) {
		text = text[:count]
	}
	for i, b := range text {
		if b == 0 {
			text = text[:i]
			break
		}
	}
	return string(text), nil
}
