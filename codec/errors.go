package codec

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrCoercion is matched by every CoercionError.
var ErrCoercion = errors.New("coercion failed")

// ErrMalformedToken is returned when a raw token has the wrong shape for the target type.
var ErrMalformedToken = errors.New("malformed token")

// ErrMissingField is returned when a composite value lacks a required field.
var ErrMissingField = errors.New("missing field")

// ErrUnresolvedReference is returned when a value names something that does not exist.
var ErrUnresolvedReference = errors.New("unresolved reference")

// ErrUnknownSymbol is returned when a symbolic token does not name a known value.
var ErrUnknownSymbol = errors.New("unknown symbol")

// ErrSkip is returned by an encoder to leave the value out of the output.
var ErrSkip = errors.New("skip value")

// Kind classifies a CoercionError.
type Kind int

const (
	// KindMalformedToken means the token could not be read as the target type.
	KindMalformedToken Kind = iota + 1
	// KindMissingField means a required field was absent.
	KindMissingField
	// KindUnresolvedReference means an external reference did not resolve.
	KindUnresolvedReference
	// KindUnknownSymbol means a symbolic name had no match.
	KindUnknownSymbol
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMalformedToken:
		return "malformed token"
	case KindMissingField:
		return "missing field"
	case KindUnresolvedReference:
		return "unresolved reference"
	case KindUnknownSymbol:
		return "unknown symbol"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindMalformedToken:
		return ErrMalformedToken
	case KindMissingField:
		return ErrMissingField
	case KindUnresolvedReference:
		return ErrUnresolvedReference
	case KindUnknownSymbol:
		return ErrUnknownSymbol
	default:
		return nil
	}
}

// CoercionError describes a raw token that could not be converted to its declared type.
type CoercionError struct {
	// Path is the dotted field path from the document root, empty for the root itself.
	Path string
	// Kind classifies the failure.
	Kind Kind
	// Raw is the offending raw token.
	Raw any
	// Type is the declared target type, if known.
	Type reflect.Type
	// Field names the missing field for KindMissingField.
	Field string
	// Reference names the unresolved identifier for KindUnresolvedReference
	// or the normalized name for KindUnknownSymbol.
	Reference string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *CoercionError) Error() string {
	var msg strings.Builder

	msg.WriteString("coercion error")

	if e.Path != "" {
		fmt.Fprintf(&msg, " at %q", e.Path)
	}

	if e.Type != nil {
		fmt.Fprintf(&msg, " (%s)", e.Type)
	}

	msg.WriteString(": ")

	switch e.Kind {
	case KindMissingField:
		fmt.Fprintf(&msg, "missing field %q", e.Field)
	case KindUnresolvedReference:
		fmt.Fprintf(&msg, "unresolved reference %q", e.Reference)
	case KindUnknownSymbol:
		fmt.Fprintf(&msg, "unknown symbol %q", e.Reference)
	default:
		msg.WriteString(e.Kind.String())
	}

	if e.Kind != KindMissingField && e.Raw != nil {
		fmt.Fprintf(&msg, " in token %s", formatRaw(e.Raw))
	}

	if e.Err != nil {
		fmt.Fprintf(&msg, ": %v", e.Err)
	}

	return msg.String()
}

// Unwrap exposes the kind sentinel, ErrCoercion and the cause to errors.Is and errors.As.
func (e *CoercionError) Unwrap() []error {
	errs := []error{ErrCoercion}

	if sentinel := e.Kind.sentinel(); sentinel != nil {
		errs = append(errs, sentinel)
	}

	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}

// Malformed returns a KindMalformedToken error for raw.
func Malformed(raw any, typ reflect.Type, cause error) *CoercionError {
	return &CoercionError{Kind: KindMalformedToken, Raw: raw, Type: typ, Err: cause}
}

// Malformedf returns a KindMalformedToken error with a formatted cause.
func Malformedf(raw any, typ reflect.Type, format string, args ...any) *CoercionError {
	return Malformed(raw, typ, fmt.Errorf(format, args...))
}

// MissingField returns a KindMissingField error naming field.
func MissingField(raw any, typ reflect.Type, field string) *CoercionError {
	return &CoercionError{Kind: KindMissingField, Raw: raw, Type: typ, Field: field}
}

// UnresolvedReference returns a KindUnresolvedReference error naming ref.
func UnresolvedReference(raw any, typ reflect.Type, ref string) *CoercionError {
	return &CoercionError{Kind: KindUnresolvedReference, Raw: raw, Type: typ, Reference: ref}
}

// UnknownSymbol returns a KindUnknownSymbol error naming the normalized symbol.
func UnknownSymbol(raw any, typ reflect.Type, symbol string) *CoercionError {
	return &CoercionError{Kind: KindUnknownSymbol, Raw: raw, Type: typ, Reference: symbol}
}

// AtPath prefixes segment to the path of a coercion error raised while
// decoding a member of a composite value. Other errors become malformed-token
// errors first.
func AtPath(err error, segment string) error {
	return withPath(err, segment, nil, nil)
}

// withPath prefixes segment to the path of a coercion error. Other errors
// are converted to a malformed-token error first.
func withPath(err error, segment string, raw any, typ reflect.Type) error {
	var coercionErr *CoercionError
	if !errors.As(err, &coercionErr) {
		coercionErr = Malformed(raw, typ, err)
	}

	switch {
	case coercionErr.Path == "":
		coercionErr.Path = segment
	case strings.HasPrefix(coercionErr.Path, "["):
		coercionErr.Path = segment + coercionErr.Path
	default:
		coercionErr.Path = segment + "." + coercionErr.Path
	}

	return coercionErr
}

func formatRaw(raw any) string {
	switch value := raw.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", value)
	case Object:
		return "object"
	case map[string]any, map[any]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%v", value)
	}
}
