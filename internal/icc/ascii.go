package icc

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ASCII folds text for the desc tag: accents are dropped after canonical
// decomposition and any other non-ASCII rune becomes '?'.
func ASCII(text string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(func(r rune) rune {
			if r > unicode.MaxASCII {
				return '?'
			}
			return r
		}),
	)
	out, _, err := transform.String(t, text)
	if err != nil {
		return replaceNonASCII(text)
	}
	return out
}

func replaceNonASCII(text string) string {
	buf := make([]byte, 0, len(text))
	for _, r := range text {
		if r > unicode.MaxASCII {
			r = '?'
		}
		buf = append(buf, byte(r))
	}
	return string(buf)
}
