package codec

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrInvalidTarget is returned when Decode is given something other than a non-nil pointer.
var ErrInvalidTarget = errors.New("decode target must be a non-nil pointer")

// ErrNotInterface is returned when a capability is registered with a non-interface type.
var ErrNotInterface = errors.New("capability type must be an interface")

// DecodeFunc converts a raw token into a value of typ.
// The returned value must be assignable to typ.
type DecodeFunc func(reg *Registry, typ reflect.Type, raw any) (reflect.Value, error)

// EncodeFunc converts a value into a raw token. Returning ErrSkip leaves the
// value out of the output.
type EncodeFunc func(reg *Registry, value reflect.Value) (any, error)

// Codec is a decode/encode pair for one type or capability.
// A nil Decode or Encode falls through to the structural default.
type Codec struct {
	Decode DecodeFunc
	Encode EncodeFunc
}

type capability struct {
	iface reflect.Type
	codec Codec
}

// Registry maps declared types to codecs. Lookups go from the exact type to
// registered capabilities (latest registration first) and finally to the
// structural default. A Registry is safe for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	exact        map[reflect.Type]Codec
	capabilities []capability
}

// NewRegistry creates a registry with the structural defaults, time.Duration
// and the Symbolic capability. It does not include the text rule; see RegisterText.
func NewRegistry() *Registry {
	reg := &Registry{
		exact:        make(map[reflect.Type]Codec),
		capabilities: nil,
	}

	registerDuration(reg)
	RegisterSymbols(reg)

	return reg
}

// Register stores or replaces the codec for the exact type typ.
func (r *Registry) Register(typ reflect.Type, codec Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.exact[typ] = codec
}

// RegisterInterface stores a codec for every type whose value or pointer
// implements iface. Registering the same interface again replaces the entry
// and moves it to the front of the lookup order.
func (r *Registry) RegisterInterface(iface reflect.Type, codec Codec) error {
	if iface == nil || iface.Kind() != reflect.Interface {
		return fmt.Errorf("%w: %v", ErrNotInterface, iface)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.capabilities[:0:0]

	for _, existing := range r.capabilities {
		if existing.iface != iface {
			kept = append(kept, existing)
		}
	}

	r.capabilities = append(kept, capability{iface: iface, codec: codec})

	return nil
}

// Register stores a typed codec for V.
func Register[V any](reg *Registry, decode func(reg *Registry, raw any) (V, error), encode func(reg *Registry, value V) (any, error)) {
	typ := reflect.TypeFor[V]()

	var entry Codec

	if decode != nil {
		entry.Decode = func(reg *Registry, _ reflect.Type, raw any) (reflect.Value, error) {
			value, err := decode(reg, raw)
			if err != nil {
				return reflect.Value{}, err
			}

			return reflect.ValueOf(&value).Elem(), nil
		}
	}

	if encode != nil {
		entry.Encode = func(reg *Registry, value reflect.Value) (any, error) {
			typed, ok := value.Interface().(V)
			if !ok {
				return nil, fmt.Errorf("%w: expected %s, got %s", ErrMalformedToken, typ, value.Type())
			}

			return encode(reg, typed)
		}
	}

	reg.Register(typ, entry)
}

// RegisterInterface stores a capability codec for the interface I.
func RegisterInterface[I any](reg *Registry, codec Codec) error {
	return reg.RegisterInterface(reflect.TypeFor[I](), codec)
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clone := &Registry{
		exact:        make(map[reflect.Type]Codec, len(r.exact)),
		capabilities: append([]capability(nil), r.capabilities...),
	}

	for typ, entry := range r.exact {
		clone.exact[typ] = entry
	}

	return clone
}

// Lookup returns the most specific codec registered for typ.
func (r *Registry) Lookup(typ reflect.Type) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if entry, ok := r.exact[typ]; ok {
		return entry, true
	}

	for i := len(r.capabilities) - 1; i >= 0; i-- {
		candidate := r.capabilities[i]
		if typ.Implements(candidate.iface) || (typ.Kind() != reflect.Pointer && reflect.PointerTo(typ).Implements(candidate.iface)) {
			return candidate.codec, true
		}
	}

	return Codec{}, false
}

// Decode decodes raw into the value dst points to.
func (r *Registry) Decode(raw any, dst any) error {
	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return ErrInvalidTarget
	}

	value, err := r.DecodeValue(target.Elem().Type(), raw)
	if err != nil {
		return err
	}

	target.Elem().Set(value)

	return nil
}

// DecodeValue converts raw into a value of typ.
func (r *Registry) DecodeValue(typ reflect.Type, raw any) (reflect.Value, error) {
	if entry, ok := r.Lookup(typ); ok && entry.Decode != nil {
		value, err := entry.Decode(r, typ, raw)
		if err != nil {
			return reflect.Value{}, asCoercion(err, raw, typ)
		}

		return convertTo(value, typ, raw)
	}

	return r.decodeStructural(typ, raw)
}

// Encode converts src to a raw token tree.
func (r *Registry) Encode(src any) (any, error) {
	value := reflect.ValueOf(src)
	if !value.IsValid() {
		return nil, nil
	}

	// Encode through the pointer's element so codecs see addressable values.
	if value.Kind() == reflect.Pointer && !value.IsNil() {
		if _, ok := r.Lookup(value.Type()); !ok {
			value = value.Elem()
		}
	}

	raw, err := r.EncodeValue(value)
	if errors.Is(err, ErrSkip) {
		return nil, nil
	}

	return raw, err
}

// EncodeValue converts value to a raw token. It returns ErrSkip when the
// codec for the value's type writes nothing.
func (r *Registry) EncodeValue(value reflect.Value) (any, error) {
	if !value.IsValid() {
		return nil, nil
	}

	if entry, ok := r.Lookup(value.Type()); ok && entry.Encode != nil {
		return entry.Encode(r, value)
	}

	return r.encodeStructural(value)
}

func asCoercion(err error, raw any, typ reflect.Type) error {
	var coercionErr *CoercionError
	if errors.As(err, &coercionErr) {
		if coercionErr.Type == nil {
			coercionErr.Type = typ
		}

		return err
	}

	return Malformed(raw, typ, err)
}

func convertTo(value reflect.Value, typ reflect.Type, raw any) (reflect.Value, error) {
	switch {
	case !value.IsValid():
		return reflect.Zero(typ), nil
	case value.Type() == typ:
		return value, nil
	case value.Type().AssignableTo(typ):
		result := reflect.New(typ).Elem()
		result.Set(value)

		return result, nil
	case value.Type().ConvertibleTo(typ):
		return value.Convert(typ), nil
	default:
		return reflect.Value{}, Malformedf(raw, typ, "codec produced %s", value.Type())
	}
}
