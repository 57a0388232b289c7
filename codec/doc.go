// Package codec converts between raw document tokens and typed Go values.
//
// A Registry maps declared types to Codec entries. Lookups try, in order:
//   - an exact entry registered for the type
//   - capability entries registered for an interface the type (or its pointer)
//     implements, most recent registration first
//   - the structural default: booleans, numbers, strings, slices, arrays,
//     maps, pointers, interfaces and structs
//
// Struct fields map to lower-case, hyphen-joined keys (MaxPlayers becomes
// max-players). The `conf` struct tag overrides the key, `conf:"-"` skips the
// field. Unknown keys are ignored and missing keys keep the zero value.
//
// Two named rules live here because they apply to whole families of values:
//   - RegisterText normalizes human-written strings: text with a URL or
//     connection-string scheme is left alone, otherwise &-style escapes are
//     expanded and // or \ become the host path separator.
//   - RegisterSymbols resolves enum-like Symbolic values by name, ignoring
//     case, spaces, hyphens and camelCase boundaries.
//
// Every decode failure is a *CoercionError naming the field path and the raw
// token. Use errors.Is with ErrMissingField, ErrUnresolvedReference,
// ErrUnknownSymbol or ErrMalformedToken to classify it.
//
// Registries are plain values: build one per document, or Clone a shared base.
package codec
