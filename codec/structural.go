package codec

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// TagName is the struct tag that overrides a field's on-disk key.
// A value of "-" skips the field.
const TagName = "conf"

type structField struct {
	key   string
	index []int
}

//nolint:gochecknoglobals // cache of immutable per-type field layouts.
var fieldCache sync.Map

func structFields(typ reflect.Type) []structField {
	if cached, ok := fieldCache.Load(typ); ok {
		fields, _ := cached.([]structField)

		return fields
	}

	fields := collectFields(typ, nil)
	fieldCache.Store(typ, fields)

	return fields
}

func collectFields(typ reflect.Type, parent []int) []structField {
	var fields []structField

	for i := range typ.NumField() {
		field := typ.Field(i)
		index := append(append([]int(nil), parent...), i)

		tag := field.Tag.Get(TagName)
		if tag == "-" {
			continue
		}

		if field.Anonymous && tag == "" {
			embedded := field.Type
			if embedded.Kind() == reflect.Struct && field.IsExported() {
				fields = append(fields, collectFields(embedded, index)...)

				continue
			}
		}

		if !field.IsExported() {
			continue
		}

		key := tag
		if key == "" {
			key = FieldName(field.Name)
		}

		fields = append(fields, structField{key: key, index: index})
	}

	return fields
}

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

var textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()

func (r *Registry) decodeStructural(typ reflect.Type, raw any) (reflect.Value, error) {
	if raw == nil {
		return reflect.Zero(typ), nil
	}

	if reflect.PointerTo(typ).Implements(textUnmarshalerType) && typ.Kind() != reflect.Pointer {
		return decodeText(typ, raw)
	}

	switch typ.Kind() {
	case reflect.Bool:
		return decodeBool(typ, raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decodeInt(typ, raw)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return decodeUint(typ, raw)
	case reflect.Float32, reflect.Float64:
		return decodeFloat(typ, raw)
	case reflect.String:
		text, err := Text(raw)
		if err != nil {
			return reflect.Value{}, Malformed(raw, typ, err)
		}

		return reflect.ValueOf(text).Convert(typ), nil
	case reflect.Pointer:
		elem, err := r.DecodeValue(typ.Elem(), raw)
		if err != nil {
			return reflect.Value{}, err
		}

		ptr := reflect.New(typ.Elem())
		ptr.Elem().Set(elem)

		return ptr, nil
	case reflect.Slice:
		return r.decodeSlice(typ, raw)
	case reflect.Array:
		return r.decodeArray(typ, raw)
	case reflect.Map:
		return r.decodeMap(typ, raw)
	case reflect.Struct:
		return r.decodeStruct(typ, raw)
	case reflect.Interface:
		if typ.NumMethod() != 0 {
			return reflect.Value{}, Malformedf(raw, typ, "cannot decode into non-empty interface")
		}

		value := reflect.New(typ).Elem()
		value.Set(reflect.ValueOf(Plain(raw)))

		return value, nil
	default:
		return reflect.Value{}, Malformedf(raw, typ, "unsupported kind %s", typ.Kind())
	}
}

func decodeText(typ reflect.Type, raw any) (reflect.Value, error) {
	text, err := Text(raw)
	if err != nil {
		return reflect.Value{}, Malformed(raw, typ, err)
	}

	ptr := reflect.New(typ)

	unmarshaler, _ := ptr.Interface().(encoding.TextUnmarshaler)

	err = unmarshaler.UnmarshalText([]byte(text))
	if err != nil {
		return reflect.Value{}, Malformed(raw, typ, err)
	}

	return ptr.Elem(), nil
}

func decodeBool(typ reflect.Type, raw any) (reflect.Value, error) {
	switch value := raw.(type) {
	case bool:
		return reflect.ValueOf(value).Convert(typ), nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return reflect.Value{}, Malformed(raw, typ, err)
		}

		return reflect.ValueOf(parsed).Convert(typ), nil
	default:
		return reflect.Value{}, Malformedf(raw, typ, "expected a boolean")
	}
}

func decodeInt(typ reflect.Type, raw any) (reflect.Value, error) {
	n, err := Int(raw)
	if err != nil {
		return reflect.Value{}, Malformed(raw, typ, err)
	}

	value := reflect.New(typ).Elem()
	if value.OverflowInt(n) {
		return reflect.Value{}, Malformed(raw, typ, errOutOfRange)
	}

	value.SetInt(n)

	return value, nil
}

func decodeUint(typ reflect.Type, raw any) (reflect.Value, error) {
	n, err := Uint(raw)
	if err != nil {
		return reflect.Value{}, Malformed(raw, typ, err)
	}

	value := reflect.New(typ).Elem()
	if value.OverflowUint(n) {
		return reflect.Value{}, Malformed(raw, typ, errOutOfRange)
	}

	value.SetUint(n)

	return value, nil
}

func decodeFloat(typ reflect.Type, raw any) (reflect.Value, error) {
	f, err := Float(raw)
	if err != nil {
		return reflect.Value{}, Malformed(raw, typ, err)
	}

	value := reflect.New(typ).Elem()
	if value.OverflowFloat(f) {
		return reflect.Value{}, Malformed(raw, typ, errOutOfRange)
	}

	value.SetFloat(f)

	return value, nil
}

func (r *Registry) decodeSlice(typ reflect.Type, raw any) (reflect.Value, error) {
	items, ok := raw.([]any)
	if !ok {
		if text, isText := raw.(string); isText && typ.Elem().Kind() == reflect.Uint8 {
			return reflect.ValueOf([]byte(text)).Convert(typ), nil
		}

		// A single value where a list is declared becomes a one-element list.
		items = []any{raw}
	}

	slice := reflect.MakeSlice(typ, len(items), len(items))

	for i, item := range items {
		elem, err := r.DecodeValue(typ.Elem(), item)
		if err != nil {
			return reflect.Value{}, withPath(err, "["+strconv.Itoa(i)+"]", item, typ.Elem())
		}

		slice.Index(i).Set(elem)
	}

	return slice, nil
}

func (r *Registry) decodeArray(typ reflect.Type, raw any) (reflect.Value, error) {
	items, ok := raw.([]any)
	if !ok {
		return reflect.Value{}, Malformedf(raw, typ, "expected an array")
	}

	if len(items) > typ.Len() {
		return reflect.Value{}, Malformedf(raw, typ, "expected at most %d items, got %d", typ.Len(), len(items))
	}

	array := reflect.New(typ).Elem()

	for i, item := range items {
		elem, err := r.DecodeValue(typ.Elem(), item)
		if err != nil {
			return reflect.Value{}, withPath(err, "["+strconv.Itoa(i)+"]", item, typ.Elem())
		}

		array.Index(i).Set(elem)
	}

	return array, nil
}

func (r *Registry) decodeMap(typ reflect.Type, raw any) (reflect.Value, error) {
	fields, ok := Fields(raw)
	if !ok {
		return reflect.Value{}, Malformedf(raw, typ, "expected an object")
	}

	result := reflect.MakeMapWithSize(typ, len(fields))

	for _, field := range fields {
		key, err := r.decodeMapKey(typ.Key(), field.Key)
		if err != nil {
			return reflect.Value{}, withPath(err, field.Key, field.Key, typ.Key())
		}

		elem, err := r.DecodeValue(typ.Elem(), field.Value)
		if err != nil {
			return reflect.Value{}, withPath(err, field.Key, field.Value, typ.Elem())
		}

		result.SetMapIndex(key, elem)
	}

	return result, nil
}

// decodeMapKey keeps plain string keys verbatim; the text rule applies to
// values only. Other key types go through the registry.
func (r *Registry) decodeMapKey(typ reflect.Type, key string) (reflect.Value, error) {
	if typ.Kind() == reflect.String && typ.PkgPath() == "" {
		return reflect.ValueOf(key), nil
	}

	return r.DecodeValue(typ, key)
}

func (r *Registry) decodeStruct(typ reflect.Type, raw any) (reflect.Value, error) {
	fields, ok := Fields(raw)
	if !ok {
		return reflect.Value{}, Malformedf(raw, typ, "expected an object")
	}

	result := reflect.New(typ).Elem()

	for _, sf := range structFields(typ) {
		item, found := findKey(fields, sf.key)
		if !found {
			continue
		}

		target := result.FieldByIndex(sf.index)

		value, err := r.DecodeValue(target.Type(), item)
		if err != nil {
			return reflect.Value{}, withPath(err, sf.key, item, target.Type())
		}

		target.Set(value)
	}

	return result, nil
}

func findKey(fields []Field, key string) (any, bool) {
	for _, field := range fields {
		if field.Key == key {
			return field.Value, true
		}
	}

	for _, field := range fields {
		if strings.EqualFold(field.Key, key) {
			return field.Value, true
		}
	}

	return nil, false
}

func (r *Registry) encodeStructural(value reflect.Value) (any, error) {
	typ := value.Type()

	if isTextMarshaler(value) {
		marshaler, _ := value.Interface().(encoding.TextMarshaler)

		text, err := marshaler.MarshalText()
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", typ, err)
		}

		return string(text), nil
	}

	switch typ.Kind() {
	case reflect.Bool:
		return value.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return value.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return value.Float(), nil
	case reflect.String:
		return value.String(), nil
	case reflect.Pointer, reflect.Interface:
		if value.IsNil() {
			return nil, nil
		}

		return r.EncodeValue(value.Elem())
	case reflect.Slice:
		if value.IsNil() {
			return []any{}, nil
		}

		if typ.Elem().Kind() == reflect.Uint8 {
			return string(value.Bytes()), nil
		}

		return r.encodeList(value)
	case reflect.Array:
		return r.encodeList(value)
	case reflect.Map:
		return r.encodeMap(value)
	case reflect.Struct:
		return r.encodeStruct(value)
	default:
		return nil, fmt.Errorf("%w: cannot encode kind %s", ErrMalformedToken, typ.Kind())
	}
}

func isTextMarshaler(value reflect.Value) bool {
	typ := value.Type()

	switch {
	case typ.Kind() == reflect.Interface:
		return false
	case typ.Kind() == reflect.Pointer && value.IsNil():
		return false
	default:
		return typ.Implements(textMarshalerType)
	}
}

func (r *Registry) encodeList(value reflect.Value) (any, error) {
	items := make([]any, 0, value.Len())

	for i := range value.Len() {
		item, err := r.EncodeValue(value.Index(i))
		if errors.Is(err, ErrSkip) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}

		items = append(items, item)
	}

	return items, nil
}

func (r *Registry) encodeMap(value reflect.Value) (any, error) {
	type entry struct {
		key  string
		elem reflect.Value
	}

	entries := make([]entry, 0, value.Len())
	iter := value.MapRange()

	for iter.Next() {
		key, err := r.EncodeValue(iter.Key())
		if err != nil {
			return nil, fmt.Errorf("map key: %w", err)
		}

		entries = append(entries, entry{key: fmt.Sprint(key), elem: iter.Value()})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	object := make(Object, 0, len(entries))

	for _, item := range entries {
		raw, err := r.EncodeValue(item.elem)
		if errors.Is(err, ErrSkip) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("%s: %w", item.key, err)
		}

		object = append(object, Field{Key: item.key, Value: raw})
	}

	return object, nil
}

func (r *Registry) encodeStruct(value reflect.Value) (any, error) {
	// Copy into an addressable value so codecs may use pointer methods.
	if !value.CanAddr() {
		addressable := reflect.New(value.Type()).Elem()
		addressable.Set(value)
		value = addressable
	}

	fields := structFields(value.Type())
	object := make(Object, 0, len(fields))

	for _, sf := range fields {
		raw, err := r.EncodeValue(value.FieldByIndex(sf.index))
		if errors.Is(err, ErrSkip) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("%s: %w", sf.key, err)
		}

		object = append(object, Field{Key: sf.key, Value: raw})
	}

	return object, nil
}
