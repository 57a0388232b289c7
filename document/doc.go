// Package document holds one typed document in memory and keeps it in step
// with its backing data.
//
// The package uses an interface-based design with five extension points:
//   - Parser: converts bytes to a raw token tree and back, with section support
//   - DataFetcher: retrieves the raw bytes (file, embedded resource, etc.)
//   - DataWriter: replaces the raw bytes, optional, required by Save
//   - Validator: validates a decoded document
//   - Defaulter: applies default values before validation
//
// Conversion between the raw token tree and the typed value is done by a
// codec.Registry.
//
// # Sections
//
// WithSection targets one section of a larger file. Paths use colon (:) as
// the separator:
//
//	"api:permissions"           -> document["api"]["permissions"]
//	""                          -> entire document
//
// Save writes the section back in place and keeps the rest of the file.
//
// # Failures
//
// A failed Load, Reload or Replace leaves the current value untouched. Read
// and write failures are *IOError (errors.Is ErrIO). Syntax errors and bad
// values are *codec.CoercionError; a missing section is reported as a
// missing field named after the section.
//
// # Example
//
//	type Arena struct {
//	    Name  string
//	    Spawn values.Location
//	}
//
//	fetcher, err := file.NewFetcher("config/arena.yaml")()
//	store := document.New[Arena](fetcher, yaml.NewParser(), registry)
//	err = store.Load()
package document
