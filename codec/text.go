package codec

import (
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
)

// DefaultStyleMarker is the native style marker that &-escapes expand to.
const DefaultStyleMarker = '§'

// styleCodes are the characters that may follow & in a style escape.
const styleCodes = "0123456789abcdefklmnorx"

//nolint:gochecknoglobals // compiled once, read-only.
var schemePattern = regexp.MustCompile(`(?i)(\b[a-z][a-z0-9+.\-]+://|^\s*jdbc:)`)

// TextOptions configures the text/path rule.
type TextOptions struct {
	// StyleMarker replaces & in style escapes. Zero means DefaultStyleMarker.
	StyleMarker rune
	// Separator replaces // and \ in path-like text. Zero means filepath.Separator.
	Separator rune
}

// HasScheme reports whether text looks like a URL or a connection string.
func HasScheme(text string) bool {
	return schemePattern.MatchString(text)
}

// NormalizeText applies the text rule: strings with a scheme pass through
// untouched, everything else gets style escapes expanded and path
// separators normalized, in that order.
func (o TextOptions) NormalizeText(text string) string {
	if HasScheme(text) {
		return text
	}

	return o.normalizeSeparators(o.expandStyles(text))
}

func (o TextOptions) expandStyles(text string) string {
	marker := o.StyleMarker
	if marker == 0 {
		marker = DefaultStyleMarker
	}

	runes := []rune(text)

	var out strings.Builder

	out.Grow(len(text))

	for i := 0; i < len(runes); i++ {
		if runes[i] == '&' && i+1 < len(runes) {
			code := toLowerASCII(runes[i+1])
			if strings.ContainsRune(styleCodes, code) {
				out.WriteRune(marker)
				out.WriteRune(code)
				i++

				continue
			}
		}

		out.WriteRune(runes[i])
	}

	return out.String()
}

func (o TextOptions) normalizeSeparators(text string) string {
	separator := o.Separator
	if separator == 0 {
		separator = filepath.Separator
	}

	sep := string(separator)
	text = strings.ReplaceAll(text, "//", sep)

	return strings.ReplaceAll(text, `\`, sep)
}

func toLowerASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}

	return r
}

// RegisterText binds the text rule to the string type. Encoding writes the
// string unchanged.
func RegisterText(reg *Registry, opts TextOptions) {
	reg.Register(reflect.TypeFor[string](), Codec{
		Decode: func(_ *Registry, typ reflect.Type, raw any) (reflect.Value, error) {
			text, err := Text(raw)
			if err != nil {
				return reflect.Value{}, Malformed(raw, typ, err)
			}

			return reflect.ValueOf(opts.NormalizeText(text)), nil
		},
		Encode: func(_ *Registry, value reflect.Value) (any, error) {
			return value.String(), nil
		},
	})
}
