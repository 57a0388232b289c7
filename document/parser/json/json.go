package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/0xalexb/hjarta-conf/codec"
	"github.com/0xalexb/hjarta-conf/document"
)

// ErrEmptyData is returned when the input data is empty.
var ErrEmptyData = document.ErrEmptyData

// ErrPathNotFound is returned when the specified path is not found in the JSON document.
var ErrPathNotFound = document.ErrPathNotFound

// ErrInvalidJSON is returned when the input is not valid JSON after comments are stripped.
var ErrInvalidJSON = errors.New("invalid json")

// Parser implements document.Parser for JSON data. Comments and trailing
// commas are accepted on input.
type Parser struct{}

// NewParser creates a new JSON parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes JSON data, or the section at path, into target.
// Numbers are decoded as json.Number.
func (p *Parser) Parse(data []byte, target any, path string) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return ErrEmptyData
	}

	data = jsonc.ToJSON(data)
	if !gjson.ValidBytes(data) {
		return ErrInvalidJSON
	}

	if path != "" {
		result := gjson.GetBytes(data, readPath(path))
		if !result.Exists() {
			return fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}

		data = []byte(result.Raw)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	err := decoder.Decode(target)
	if err != nil {
		return fmt.Errorf("unmarshal error: %w", err)
	}

	return nil
}

// Render builds indented JSON from tree, keeping the field order of
// codec.Object. With a path, the section is set inside existing.
func (p *Parser) Render(tree any, existing []byte, path string) ([]byte, error) {
	rendered, err := build(tree)
	if err != nil {
		return nil, err
	}

	if path != "" {
		base := []byte("{}")
		if len(bytes.TrimSpace(existing)) > 0 {
			base = jsonc.ToJSON(existing)
			if !gjson.ValidBytes(base) {
				return nil, fmt.Errorf("existing document: %w", ErrInvalidJSON)
			}
		}

		rendered, err = sjson.SetRawBytes(base, writePath(path), rendered)
		if err != nil {
			return nil, fmt.Errorf("setting path %q: %w", path, err)
		}
	}

	return pretty.PrettyOptions(rendered, &pretty.Options{
		Width:    80,
		Prefix:   "",
		Indent:   "  ",
		SortKeys: false,
	}), nil
}

func build(tree any) ([]byte, error) {
	switch value := tree.(type) {
	case []any:
		out := []byte("[]")

		for _, item := range value {
			raw, err := build(item)
			if err != nil {
				return nil, err
			}

			out, err = sjson.SetRawBytes(out, "-1", raw)
			if err != nil {
				return nil, fmt.Errorf("appending item: %w", err)
			}
		}

		return out, nil
	default:
		fields, ok := codec.Fields(value)
		if !ok {
			data, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("marshal error: %w", err)
			}

			return data, nil
		}

		out := []byte("{}")

		for _, field := range fields {
			raw, err := build(field.Value)
			if err != nil {
				return nil, err
			}

			out, err = sjson.SetRawBytes(out, escapeKey(field.Key), raw)
			if err != nil {
				return nil, fmt.Errorf("setting %q: %w", field.Key, err)
			}
		}

		return out, nil
	}
}

// readPath converts a colon-separated path to gjson path syntax.
// Examples:
//   - "key" -> "key"
//   - "api:permissions" -> "api.permissions"
//   - "files:app.log" -> "files.app\.log"
func readPath(path string) string {
	parts := strings.Split(path, ":")
	for i, part := range parts {
		parts[i] = gjson.Escape(part)
	}

	return strings.Join(parts, ".")
}

// writePath is readPath for sjson, which needs numeric keys forced to
// object keys.
func writePath(path string) string {
	parts := strings.Split(path, ":")
	for i, part := range parts {
		parts[i] = escapeKey(part)
	}

	return strings.Join(parts, ".")
}

// escapeKey makes an object key safe as a single sjson path component.
// All-digit keys get a leading colon so sjson does not treat them as array
// indexes.
func escapeKey(key string) string {
	if _, err := strconv.Atoi(key); err == nil {
		return ":" + key
	}

	return gjson.Escape(key)
}
