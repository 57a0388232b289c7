package values

import (
	"reflect"
	"strings"
	"sync"

	"github.com/0xalexb/hjarta-conf/codec"
)

// TypeRef is a reference to a Go type by its qualified name. It is read-only
// on disk: encoding writes nothing.
type TypeRef struct {
	Name string
	Type reflect.Type
}

// TypeRegistry resolves qualified type names. Each type is known by its full
// import path name (github.com/acme/kit.Reward) and its short name (kit.Reward).
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewTypeRegistry returns a registry holding types.
func NewTypeRegistry(types ...reflect.Type) *TypeRegistry {
	r := &TypeRegistry{types: make(map[string]reflect.Type, len(types)*2)}
	r.Add(types...)

	return r
}

// Add registers types under their qualified names. Unnamed types are ignored.
func (r *TypeRegistry) Add(types ...reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, typ := range types {
		if typ == nil || typ.Name() == "" {
			continue
		}

		r.types[typ.String()] = typ

		if typ.PkgPath() != "" {
			r.types[typ.PkgPath()+"."+typ.Name()] = typ
		}
	}
}

// AddType registers V.
func AddType[V any](r *TypeRegistry) {
	r.Add(reflect.TypeFor[V]())
}

// Resolve returns the type registered under name.
func (r *TypeRegistry) Resolve(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typ, ok := r.types[strings.TrimSpace(name)]

	return typ, ok
}

func registerTypeRef(reg *codec.Registry, types *TypeRegistry) {
	codec.Register(reg,
		func(_ *codec.Registry, raw any) (TypeRef, error) {
			typ := reflect.TypeFor[TypeRef]()

			if raw == nil {
				return TypeRef{}, nil
			}

			name, err := codec.Text(raw)
			if err != nil {
				return TypeRef{}, codec.Malformed(raw, typ, err)
			}

			name = strings.TrimSpace(name)

			resolved, ok := types.Resolve(name)
			if !ok {
				return TypeRef{}, codec.UnresolvedReference(raw, typ, name)
			}

			return TypeRef{Name: name, Type: resolved}, nil
		},
		func(_ *codec.Registry, _ TypeRef) (any, error) {
			return nil, codec.ErrSkip
		},
	)
}
