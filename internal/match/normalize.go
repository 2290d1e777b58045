package match

import (
	"strings"
	"unicode"
)

// NormalizeKey folds a binding key for fuzzy comparison: the method name is
// lower-cased and whitespace is dropped everywhere, so "Close() error" and
// "close()error" normalize to the same string.
func NormalizeKey(key string) string {
	name, sig, found := strings.Cut(key, "(")

	var sb strings.Builder

	sb.Grow(len(key))

	for _, r := range strings.ToLower(name) {
		if !unicode.IsSpace(r) && r != '_' {
			sb.WriteRune(r)
		}
	}

	if !found {
		return sb.String()
	}

	sb.WriteByte('(')

	for _, r := range sig {
		if !unicode.IsSpace(r) {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}
