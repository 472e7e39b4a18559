package doctree

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MakeID converts arbitrary text into an identifier usable as an HTML id and
// URL fragment. The result only contains [a-z0-9-], starts with a letter and
// never ends with a hyphen. It returns "" when nothing usable remains.
func MakeID(text string) string {
	ascii := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	folded, _, err := transform.String(ascii, text)
	if err != nil {
		folded = text
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
			if b.Len() == 0 {
				// ids must start with a letter
				continue
			}
		default:
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
