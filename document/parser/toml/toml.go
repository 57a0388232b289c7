package toml

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/0xalexb/hjarta-conf/codec"
	"github.com/0xalexb/hjarta-conf/document"
)

// ErrEmptyData is returned when the input data is empty.
var ErrEmptyData = document.ErrEmptyData

// ErrPathNotFound is returned when the specified path is not found in the TOML document.
var ErrPathNotFound = document.ErrPathNotFound

// Parser implements document.Parser for TOML data.
type Parser struct{}

// NewParser creates a new TOML parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes TOML data, or the table at path, into target.
func (p *Parser) Parse(data []byte, target any, path string) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return ErrEmptyData
	}

	if path == "" {
		err := toml.Unmarshal(data, target)
		if err != nil {
			return fmt.Errorf("unmarshal error: %w", err)
		}

		return nil
	}

	var doc map[string]any

	err := toml.Unmarshal(data, &doc)
	if err != nil {
		return fmt.Errorf("unmarshal error: %w", err)
	}

	var section any = doc

	for _, part := range strings.Split(path, ":") {
		table, ok := section.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}

		section, ok = table[part]
		if !ok {
			return fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
	}

	return assign(target, section)
}

// assign stores value in target. Targets other than *any go through a
// marshal round trip, which works only for tables.
func assign(target any, value any) error {
	if ptr, ok := target.(*any); ok {
		*ptr = value

		return nil
	}

	table, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("section is %T, not a table", value)
	}

	data, err := toml.Marshal(table)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	err = toml.Unmarshal(data, target)
	if err != nil {
		return fmt.Errorf("unmarshal error: %w", err)
	}

	return nil
}

// Render marshals tree as TOML. Keys within a table are sorted and null
// values are dropped, TOML has no null. With a path, the table is set
// inside existing.
func (p *Parser) Render(tree any, existing []byte, path string) ([]byte, error) {
	value := toTOML(tree)

	if path != "" {
		doc := map[string]any{}

		if len(bytes.TrimSpace(existing)) > 0 {
			err := toml.Unmarshal(existing, &doc)
			if err != nil {
				return nil, fmt.Errorf("unmarshal existing document: %w", err)
			}
		}

		setSection(doc, strings.Split(path, ":"), value)
		value = doc
	}

	table, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document root is %T, not a table", value)
	}

	data, err := toml.Marshal(table)
	if err != nil {
		return nil, fmt.Errorf("marshal error: %w", err)
	}

	return data, nil
}

func setSection(doc map[string]any, parts []string, value any) {
	for _, part := range parts[:len(parts)-1] {
		child, ok := doc[part].(map[string]any)
		if !ok {
			child = map[string]any{}
			doc[part] = child
		}

		doc = child
	}

	doc[parts[len(parts)-1]] = value
}

// toTOML converts codec objects to plain maps without null entries.
func toTOML(tree any) any {
	switch value := tree.(type) {
	case []any:
		items := make([]any, 0, len(value))
		for _, item := range value {
			if item != nil {
				items = append(items, toTOML(item))
			}
		}

		return items
	default:
		fields, ok := codec.Fields(value)
		if !ok {
			return value
		}

		table := make(map[string]any, len(fields))
		for _, field := range fields {
			if field.Value != nil {
				table[field.Key] = toTOML(field.Value)
			}
		}

		return table
	}
}
