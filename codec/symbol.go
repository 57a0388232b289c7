package codec

import (
	"fmt"
	"reflect"
)

// Symbolic is implemented by enum-like values resolved by name, such as
// materials or entity kinds. SymbolName is usually a value method and
// SetSymbol a pointer method; the registry handles both.
type Symbolic interface {
	// SymbolName returns the canonical upper-case name.
	SymbolName() string
	// SetSymbol sets the receiver from a canonical name and reports whether it exists.
	SetSymbol(name string) bool
}

// symbolSetter is the pointer half of Symbolic.
type symbolSetter interface {
	SetSymbol(name string) bool
}

// symbolNamer is the value half of Symbolic.
type symbolNamer interface {
	SymbolName() string
}

// RegisterSymbols binds the case-insensitive symbolic rule to every type
// implementing Symbolic. NewRegistry calls it.
func RegisterSymbols(reg *Registry) {
	_ = RegisterInterface[Symbolic](reg, Codec{
		Decode: decodeSymbol,
		Encode: encodeSymbol,
	})
}

func decodeSymbol(_ *Registry, typ reflect.Type, raw any) (reflect.Value, error) {
	elemType := typ
	if typ.Kind() == reflect.Pointer {
		elemType = typ.Elem()
	}

	if raw == nil {
		return reflect.Zero(typ), nil
	}

	token, ok := raw.(string)
	if !ok {
		return reflect.Value{}, Malformedf(raw, typ, "expected a symbol name")
	}

	name := NormalizeSymbol(token)
	if name == "" {
		return reflect.Zero(typ), nil
	}

	ptr := reflect.New(elemType)

	setter, ok := ptr.Interface().(symbolSetter)
	if !ok {
		return reflect.Value{}, Malformedf(raw, typ, "%s cannot be set from a symbol", elemType)
	}

	if !setter.SetSymbol(name) {
		return reflect.Value{}, UnknownSymbol(raw, typ, name)
	}

	if typ.Kind() == reflect.Pointer {
		return ptr, nil
	}

	return ptr.Elem(), nil
}

func encodeSymbol(_ *Registry, value reflect.Value) (any, error) {
	if value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil
		}

		value = value.Elem()
	}

	if namer, ok := value.Interface().(symbolNamer); ok {
		return namer.SymbolName(), nil
	}

	ptr := reflect.New(value.Type())
	ptr.Elem().Set(value)

	namer, ok := ptr.Interface().(symbolNamer)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no symbol name", ErrMalformedToken, value.Type())
	}

	return namer.SymbolName(), nil
}
