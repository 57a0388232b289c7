// Package json provides a JSON parser implementation for the document package.
//
// Input may carry comments and trailing commas (github.com/tidwall/jsonc
// strips them). Sections are navigated with github.com/tidwall/gjson using
// colon-separated paths ("api:permissions" becomes "api.permissions").
// Output is built with github.com/tidwall/sjson so object keys keep the
// order produced by codec.Registry.Encode, and is indented with
// github.com/tidwall/pretty. Comments in an existing file are not preserved
// when a section is written back.
package json
