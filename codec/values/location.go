package values

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/0xalexb/hjarta-conf/codec"
)

// World is a named world a Location is bound to.
type World interface {
	Name() string
}

// NamedWorld is a World identified only by its name.
type NamedWorld string

// Name implements World.
func (w NamedWorld) Name() string { return string(w) }

// WorldResolver looks up live worlds by name.
type WorldResolver interface {
	World(name string) (World, bool)
}

// WorldResolverFunc adapts a function to WorldResolver.
type WorldResolverFunc func(name string) (World, bool)

// World implements WorldResolver.
func (f WorldResolverFunc) World(name string) (World, bool) { return f(name) }

// StaticWorlds resolves exactly the given world names.
func StaticWorlds(names ...string) WorldResolver {
	known := make(map[string]World, len(names))
	for _, name := range names {
		known[name] = NamedWorld(name)
	}

	return WorldResolverFunc(func(name string) (World, bool) {
		world, ok := known[name]

		return world, ok
	})
}

// Location is a point in a world.
type Location struct {
	World   World
	X, Y, Z float64
}

// String renders the location as its on-disk token: world,x,y,z.
func (l Location) String() string {
	world := ""
	if l.World != nil {
		world = l.World.Name()
	}

	return strings.Join([]string{
		world,
		strconv.FormatFloat(l.X, 'f', -1, 64),
		strconv.FormatFloat(l.Y, 'f', -1, 64),
		strconv.FormatFloat(l.Z, 'f', -1, 64),
	}, ",")
}

//nolint:gochecknoglobals // fixed check order.
var locationAxes = []string{"x", "y", "z"}

func registerLocation(reg *codec.Registry, worlds WorldResolver) {
	codec.Register(reg,
		func(_ *codec.Registry, raw any) (Location, error) {
			return decodeLocation(raw, worlds)
		},
		func(_ *codec.Registry, value Location) (any, error) {
			if value.World == nil {
				return nil, nil
			}

			return value.String(), nil
		},
	)
}

func decodeLocation(raw any, worlds WorldResolver) (Location, error) {
	typ := reflect.TypeFor[Location]()

	// An unset location is saved as null.
	if raw == nil {
		return Location{}, nil
	}

	var (
		coords    [3]float64
		worldName string
	)

	if token, ok := raw.(string); ok {
		parts := strings.Split(token, ",")
		if len(parts) < 4 {
			return Location{}, codec.Malformedf(raw, typ, "expected world,x,y,z")
		}

		// World names may contain commas; the last three parts are the axes.
		worldName = strings.Join(parts[:len(parts)-3], ",")

		for i, part := range parts[len(parts)-3:] {
			value, err := codec.Float(strings.TrimSpace(part))
			if err != nil {
				return Location{}, codec.AtPath(codec.Malformed(part, typ, err), locationAxes[i])
			}

			coords[i] = value
		}
	} else {
		if _, ok := codec.Fields(raw); !ok {
			return Location{}, codec.Malformedf(raw, typ, "expected an object or a world,x,y,z token")
		}

		for i, axis := range locationAxes {
			value, ok := codec.Lookup(raw, axis)
			if !ok || value == nil {
				return Location{}, codec.MissingField(raw, typ, axis)
			}

			number, err := codec.Float(value)
			if err != nil {
				return Location{}, codec.AtPath(codec.Malformed(value, typ, err), axis)
			}

			coords[i] = number
		}

		value, ok := codec.Lookup(raw, "world")
		if !ok || value == nil {
			return Location{}, codec.MissingField(raw, typ, "world")
		}

		name, err := codec.Text(value)
		if err != nil {
			return Location{}, codec.AtPath(codec.Malformed(value, typ, err), "world")
		}

		worldName = name
	}

	worldName = strings.TrimSpace(worldName)
	if worldName == "" {
		return Location{}, codec.MissingField(raw, typ, "world")
	}

	var world World = NamedWorld(worldName)

	if worlds != nil {
		resolved, ok := worlds.World(worldName)
		if !ok {
			return Location{}, codec.UnresolvedReference(raw, typ, worldName)
		}

		world = resolved
	}

	return Location{World: world, X: coords[0], Y: coords[1], Z: coords[2]}, nil
}
