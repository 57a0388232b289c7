package yaml

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/parser"

	"github.com/0xalexb/hjarta-conf/codec"
	"github.com/0xalexb/hjarta-conf/document"
)

// ErrEmptyData is returned when the input data is empty.
var ErrEmptyData = document.ErrEmptyData

// ErrPathNotFound is returned when the specified path is not found in the YAML document.
var ErrPathNotFound = document.ErrPathNotFound

// Parser implements document.Parser for YAML data.
// It uses goccy/go-yaml PathString for efficient path navigation.
type Parser struct{}

// NewParser creates a new YAML parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses YAML data and unmarshals it into the target.
// The path parameter specifies a navigation path using colon (:) as separator.
// Empty path parses the entire document.
func (p *Parser) Parse(data []byte, target any, path string) error {
	if len(data) == 0 {
		return ErrEmptyData
	}

	if path == "" {
		err := yaml.Unmarshal(data, target)
		if err != nil {
			return fmt.Errorf("unmarshal error: %w", err)
		}

		return nil
	}

	pathObj, err := yaml.PathString(convertToYAMLPath(path))
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}

	err = pathObj.Read(bytes.NewReader(data), target)
	if err != nil {
		if yaml.IsNotFoundNodeError(err) {
			return fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}

		return fmt.Errorf("reading path %q: %w", path, err)
	}

	return nil
}

// Render marshals tree as YAML, keeping the field order of codec.Object.
// With a path, the section is replaced inside existing and comments
// elsewhere in the file survive.
func (p *Parser) Render(tree any, existing []byte, path string) ([]byte, error) {
	value := toYAML(tree)

	if path == "" {
		return marshal(value)
	}

	if len(bytes.TrimSpace(existing)) == 0 {
		return marshal(nest(strings.Split(path, ":"), value))
	}

	pathObj, err := yaml.PathString(convertToYAMLPath(path))
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}

	file, err := parser.ParseBytes(existing, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parsing existing document: %w", err)
	}

	if _, err := pathObj.FilterFile(file); err != nil {
		if yaml.IsNotFoundNodeError(err) {
			return mergeOrdered(existing, strings.Split(path, ":"), value)
		}

		return nil, fmt.Errorf("reading path %q: %w", path, err)
	}

	node, err := yaml.ValueToNode(value, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return nil, fmt.Errorf("building node: %w", err)
	}

	err = pathObj.ReplaceWithNode(file, node)
	if err != nil {
		return nil, fmt.Errorf("replacing path %q: %w", path, err)
	}

	return []byte(file.String() + "\n"), nil
}

// mergeOrdered adds a section that does not exist yet. It goes through an
// ordered map, so comments in existing are dropped.
func mergeOrdered(existing []byte, parts []string, value any) ([]byte, error) {
	var doc yaml.MapSlice

	err := yaml.UnmarshalWithOptions(existing, &doc, yaml.UseOrderedMap())
	if err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	return marshal(setSection(doc, parts, value))
}

func setSection(doc yaml.MapSlice, parts []string, value any) yaml.MapSlice {
	for i, item := range doc {
		if fmt.Sprint(item.Key) != parts[0] {
			continue
		}

		if len(parts) == 1 {
			doc[i].Value = value

			return doc
		}

		child, _ := item.Value.(yaml.MapSlice)
		doc[i].Value = setSection(child, parts[1:], value)

		return doc
	}

	return append(doc, yaml.MapItem{Key: parts[0], Value: nest(parts[1:], value)})
}

func nest(parts []string, value any) any {
	for i := len(parts) - 1; i >= 0; i-- {
		value = yaml.MapSlice{{Key: parts[i], Value: value}}
	}

	return value
}

func marshal(value any) ([]byte, error) {
	data, err := yaml.MarshalWithOptions(value, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return nil, fmt.Errorf("marshal error: %w", err)
	}

	return data, nil
}

// toYAML converts ordered codec objects to yaml.MapSlice.
func toYAML(tree any) any {
	switch value := tree.(type) {
	case codec.Object:
		slice := make(yaml.MapSlice, 0, len(value))
		for _, field := range value {
			slice = append(slice, yaml.MapItem{Key: field.Key, Value: toYAML(field.Value)})
		}

		return slice
	case []any:
		items := make([]any, len(value))
		for i, item := range value {
			items[i] = toYAML(item)
		}

		return items
	default:
		if fields, ok := codec.Fields(value); ok {
			return toYAML(codec.Object(fields))
		}

		return value
	}
}

// convertToYAMLPath converts a colon-separated path to goccy/go-yaml PathString format.
// Examples:
//   - "key" -> "$.key"
//   - "api:permissions" -> "$.api.permissions"
func convertToYAMLPath(path string) string {
	parts := strings.Split(path, ":")

	return "$." + strings.Join(parts, ".")
}
