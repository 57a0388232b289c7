// Package values binds game domain types to a codec.Registry.
//
// Symbolic types (Material, EntityType, Effect, BlockFace, PotionEffectType)
// implement codec.Symbolic and need no registration. Register adds the
// composite and reference types:
//   - Location, resolved against a WorldResolver
//   - PotionEffect, decoded only
//   - *Counter, advanced on every encode
//   - TypeRef, resolved against a TypeRegistry and decoded only
package values

import (
	"github.com/0xalexb/hjarta-conf/codec"
)

// Options holds the external lookups used by Register.
type Options struct {
	// Worlds resolves Location world names. Nil accepts any name as a NamedWorld.
	Worlds WorldResolver
	// Types resolves TypeRef names. Nil resolves nothing.
	Types *TypeRegistry
}

// Register binds the domain value codecs to reg.
func Register(reg *codec.Registry, opts Options) {
	types := opts.Types
	if types == nil {
		types = NewTypeRegistry()
	}

	registerLocation(reg, opts.Worlds)
	registerPotionEffect(reg)
	registerCounter(reg)
	registerTypeRef(reg, types)
}
