// Package yaml provides a YAML parser implementation for the document package.
//
// This package uses github.com/goccy/go-yaml for YAML parsing with native
// PathString support for efficient path navigation. The parser converts
// colon-separated paths (e.g., "api:permissions") to YAML path format
// (e.g., "$.api.permissions") internally.
//
// Usage:
//
//	parser := yaml.NewParser()
//	var tree any
//	err := parser.Parse(data, &tree, "api:permissions")
//
// Path Conversion:
//   - Empty path "" -> unmarshal entire document
//   - Single key "key" -> "$.key"
//   - Nested path "api:permissions" -> "$.api.permissions"
//
// Rendering keeps the field order produced by codec.Registry.Encode. A section
// render replaces just that section and leaves the rest of the file, comments
// included, as it was.
package yaml
