package codec

import (
	"strings"
	"unicode"
)

// FieldName converts a Go field name to the on-disk key: lower-case words
// joined by hyphens. Acronyms stay together, so HTTPPort becomes http-port.
func FieldName(name string) string {
	return joinWords(splitWords(name), '-', unicode.ToLower)
}

// NormalizeSymbol converts a human-written symbolic token to the canonical
// upper-case, underscore-joined form. Spaces, hyphens and camelCase
// boundaries all become underscores.
func NormalizeSymbol(token string) string {
	return joinWords(splitWords(strings.TrimSpace(token)), '_', unicode.ToUpper)
}

// splitWords breaks an identifier into words at separators, lower-to-upper
// transitions and the end of an upper-case run followed by a lower-case letter.
func splitWords(name string) []string {
	runes := []rune(name)
	words := make([]string, 0, 4)
	start := -1

	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}

		start = -1
	}

	for i, r := range runes {
		if r == ' ' || r == '_' || r == '-' || r == '\t' {
			flush(i)

			continue
		}

		if start < 0 {
			start = i

			continue
		}

		prev := runes[i-1]

		switch {
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush(i)

			start = i
		case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			flush(i)

			start = i
		}
	}

	flush(len(runes))

	return words
}

func joinWords(words []string, sep rune, mapCase func(rune) rune) string {
	var out strings.Builder

	for i, word := range words {
		if i > 0 {
			out.WriteRune(sep)
		}

		out.WriteString(strings.Map(mapCase, word))
	}

	return out.String()
}
