package catalog

import (
	"regexp"
	"strings"
)

var (
	camelRun    = regexp.MustCompile(`([A-Z][a-z]+)`)
	letterDigit = regexp.MustCompile(`([A-Za-z])([0-9])`)
	joiners     = strings.NewReplacer("_", " ", "+", " ")
)

// FormatMaterial turns raw material text such as "PhotoLuster260" into
// "Photo Luster 260". stripToken, when set, is removed case-insensitively
// first. Only ASCII letters are recognized; the result is stable when fed back
// in.
func FormatMaterial(raw, stripToken string) string {
	text := raw
	if token := strings.TrimSpace(stripToken); token != "" {
		text = RemoveFold(text, token)
	}
	text = joiners.Replace(text)
	text = camelRun.ReplaceAllString(text, " $1")
	text = letterDigit.ReplaceAllString(text, "$1 $2")

	words := strings.Fields(text)
	for i, word := range words {
		if c := word[0]; c >= 'a' && c <= 'z' {
			words[i] = string(c-'a'+'A') + word[1:]
		}
	}
	return strings.Join(words, " ")
}

// RemoveFold deletes every case-insensitive occurrence of token from s.
func RemoveFold(s, token string) string {
	if token == "" {
		return s
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(token))
	return re.ReplaceAllLiteralString(s, "")
}
