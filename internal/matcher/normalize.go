// file: internal/matcher/normalize.go
// version: 1.0.0
// guid: d1b38679-65a9-4588-87c6-1824cdd75b59

package matcher

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize turns a raw candidate name into its comparison key: lower case,
// canonical decomposition with every combining mark dropped, outer
// whitespace trimmed. Internal whitespace is kept exactly as given, so
// "ana  silva" and "ana silva" are different keys.
//
//	Normalize("  Natália São ") == "natalia sao"
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	decomposed := norm.NFD.String(strings.ToLower(raw))
	stripped := strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, decomposed)
	return strings.TrimSpace(stripped)
}
