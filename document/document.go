package document

// Parser converts between raw document bytes and a raw token tree.
//
// The path parameter specifies a navigation path within the document using
// colon (:) as the separator for nested keys. For example:
//   - "api:permissions" navigates to document["api"]["permissions"]
//   - "" (empty path) means the entire document
//
// Parse decodes data (or the section at path) into target, which is a
// pointer, usually *any. Render serializes tree, the output of
// codec.Registry.Encode. With a non-empty path, Render writes tree into the
// section at path of existing and keeps the rest of existing intact.
type Parser interface {
	Parse(data []byte, target any, path string) error
	Render(tree any, existing []byte, path string) ([]byte, error)
}

// DataFetcher defines an interface for reading document data.
type DataFetcher interface {
	Fetch() ([]byte, error)
}

// DataWriter defines an interface for replacing document data.
type DataWriter interface {
	Write(data []byte) error
}

// Validator defines an interface for validating a decoded document.
type Validator interface {
	Validate() error
}

// Defaulter defines an interface for setting default values in a decoded document.
type Defaulter interface {
	SetDefaults() (changed bool)
}
