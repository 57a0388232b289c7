package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Field is one key/value pair of an Object.
type Field struct {
	Key   string
	Value any
}

// Object is an ordered raw object. Encoders produce it so formats can keep
// struct field order in their output.
type Object []Field

// Get returns the value stored under key.
func (o Object) Get(key string) (any, bool) {
	for _, field := range o {
		if field.Key == key {
			return field.Value, true
		}
	}

	return nil, false
}

// Map converts the object, recursively, to plain maps and slices.
func (o Object) Map() map[string]any {
	result := make(map[string]any, len(o))

	for _, field := range o {
		result[field.Key] = Plain(field.Value)
	}

	return result
}

// Plain converts a raw token tree to plain Go values: objects become
// map[string]any, arrays []any and json.Number an int64 or float64.
func Plain(raw any) any {
	switch value := raw.(type) {
	case Object:
		return value.Map()
	case map[string]any, map[any]any:
		fields, _ := Fields(value)

		return Object(fields).Map()
	case []any:
		result := make([]any, len(value))
		for i, item := range value {
			result[i] = Plain(item)
		}

		return result
	case json.Number:
		if n, err := value.Int64(); err == nil {
			return n
		}

		f, err := value.Float64()
		if err != nil {
			return value.String()
		}

		return f
	default:
		return value
	}
}

// Fields returns the fields of a raw object in a stable order. Object keeps
// its own order; maps are sorted by key. The second result is false when raw
// is not an object.
func Fields(raw any) ([]Field, bool) {
	switch value := raw.(type) {
	case Object:
		return value, true
	case map[string]any:
		fields := make([]Field, 0, len(value))
		for key, item := range value {
			fields = append(fields, Field{Key: key, Value: item})
		}

		sortFields(fields)

		return fields, true
	case map[any]any:
		fields := make([]Field, 0, len(value))
		for key, item := range value {
			fields = append(fields, Field{Key: fmt.Sprint(key), Value: item})
		}

		sortFields(fields)

		return fields, true
	default:
		return nil, false
	}
}

// Lookup finds key in a raw object, ignoring case. It returns false when raw
// is not an object or the key is absent.
func Lookup(raw any, key string) (any, bool) {
	fields, ok := Fields(raw)
	if !ok {
		return nil, false
	}

	for _, field := range fields {
		if strings.EqualFold(field.Key, key) {
			return field.Value, true
		}
	}

	return nil, false
}

func sortFields(fields []Field) {
	sort.Slice(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })
}

var (
	errNotNumber  = errors.New("not a number")
	errFraction   = errors.New("has a fractional part")
	errOutOfRange = errors.New("out of range")
)

// Int reads an integer token. Numeric strings are accepted.
func Int(raw any) (int64, error) {
	switch value := raw.(type) {
	case int:
		return int64(value), nil
	case int8:
		return int64(value), nil
	case int16:
		return int64(value), nil
	case int32:
		return int64(value), nil
	case int64:
		return value, nil
	case uint:
		return uintToInt(uint64(value))
	case uint8:
		return int64(value), nil
	case uint16:
		return int64(value), nil
	case uint32:
		return int64(value), nil
	case uint64:
		return uintToInt(value)
	case float32:
		return floatToInt(float64(value))
	case float64:
		return floatToInt(value)
	case json.Number:
		return numberToInt(value.String())
	case string:
		return numberToInt(strings.TrimSpace(value))
	default:
		return 0, errNotNumber
	}
}

// Uint reads a non-negative integer token.
func Uint(raw any) (uint64, error) {
	if value, ok := raw.(uint64); ok {
		return value, nil
	}

	if text, ok := raw.(string); ok {
		if n, err := strconv.ParseUint(strings.TrimSpace(text), 10, 64); err == nil {
			return n, nil
		}
	}

	n, err := Int(raw)
	if err != nil {
		return 0, err
	}

	if n < 0 {
		return 0, errOutOfRange
	}

	return uint64(n), nil
}

// Float reads a floating point token. Numeric strings are accepted.
func Float(raw any) (float64, error) {
	switch value := raw.(type) {
	case float64:
		return value, nil
	case float32:
		return float64(value), nil
	case json.Number:
		return value.Float64() //nolint:wrapcheck
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, errNotNumber
		}

		return f, nil
	default:
		n, err := Int(raw)
		if err != nil {
			u, uerr := Uint(raw)
			if uerr != nil {
				return 0, err
			}

			return float64(u), nil
		}

		return float64(n), nil
	}
}

// Text reads a string token. Numbers are accepted and rendered as text.
func Text(raw any) (string, error) {
	switch value := raw.(type) {
	case string:
		return value, nil
	case json.Number:
		return value.String(), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(value), nil
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("expected text, got %s", formatRaw(raw))
	}
}

func uintToInt(value uint64) (int64, error) {
	if value > math.MaxInt64 {
		return 0, errOutOfRange
	}

	return int64(value), nil
}

func floatToInt(value float64) (int64, error) {
	if value != math.Trunc(value) {
		return 0, errFraction
	}

	if value < math.MinInt64 || value >= math.MaxInt64 {
		return 0, errOutOfRange
	}

	return int64(value), nil
}

func numberToInt(text string) (int64, error) {
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, errNotNumber
	}

	return floatToInt(f)
}
