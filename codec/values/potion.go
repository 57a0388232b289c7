package values

import (
	"reflect"

	"github.com/0xalexb/hjarta-conf/codec"
)

// PotionEffect is an effect applied to an entity.
//
// PotionEffect is read-only on disk: decoding accepts an object with
// effect (or type), duration and amplifier keys in any case, and encoding
// writes nothing, so a saved document drops the field.
type PotionEffect struct {
	Type      PotionEffectType
	Duration  int
	Amplifier int
}

func registerPotionEffect(reg *codec.Registry) {
	codec.Register(reg,
		decodePotionEffect,
		func(_ *codec.Registry, _ PotionEffect) (any, error) {
			return nil, codec.ErrSkip
		},
	)
}

func decodePotionEffect(reg *codec.Registry, raw any) (PotionEffect, error) {
	typ := reflect.TypeFor[PotionEffect]()

	if _, ok := codec.Fields(raw); !ok {
		return PotionEffect{}, codec.Malformedf(raw, typ, "expected an object")
	}

	key := "effect"

	token, ok := codec.Lookup(raw, key)
	if !ok {
		key = "type"
		token, ok = codec.Lookup(raw, key)
	}

	if !ok || token == nil {
		return PotionEffect{}, codec.MissingField(raw, typ, "effect")
	}

	var effect PotionEffect

	value, err := reg.DecodeValue(reflect.TypeFor[PotionEffectType](), token)
	if err != nil {
		return PotionEffect{}, codec.AtPath(err, key)
	}

	effect.Type, _ = value.Interface().(PotionEffectType)

	for _, field := range []struct {
		key string
		dst *int
	}{
		{key: "duration", dst: &effect.Duration},
		{key: "amplifier", dst: &effect.Amplifier},
	} {
		token, ok := codec.Lookup(raw, field.key)
		if !ok || token == nil {
			continue
		}

		n, err := codec.Int(token)
		if err != nil {
			return PotionEffect{}, codec.AtPath(codec.Malformed(token, reflect.TypeFor[int](), err), field.key)
		}

		if reflect.New(reflect.TypeFor[int]()).Elem().OverflowInt(n) {
			return PotionEffect{}, codec.AtPath(codec.Malformedf(token, reflect.TypeFor[int](), "%d out of range", n), field.key)
		}

		*field.dst = int(n)
	}

	return effect, nil
}
