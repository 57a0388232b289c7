package codec_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/0xalexb/hjarta-conf/codec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color int

const (
	colorRed color = iota + 1
	colorDarkBlue
)

func (c color) SymbolName() string {
	switch c {
	case colorRed:
		return "RED"
	case colorDarkBlue:
		return "DARK_BLUE"
	default:
		return ""
	}
}

func (c *color) SetSymbol(name string) bool {
	switch name {
	case "RED":
		*c = colorRed
	case "DARK_BLUE":
		*c = colorDarkBlue
	default:
		return false
	}

	return true
}

type serverSettings struct {
	Host       string
	MaxPlayers int
	HTTPPort   uint16
	Ratio      float64
	Enabled    bool
	Timeout    time.Duration
	Tags       []string
	Limits     map[string]int
	Theme      color
	Accent     *color
	Renamed    string `conf:"custom-key"`
	Ignored    string `conf:"-"`
	internal   string
}

func TestRegistry_DecodeStruct(t *testing.T) {
	t.Parallel()

	reg := codec.NewRegistry()

	raw := map[string]any{
		"host":        "localhost",
		"max-players": int64(20),
		"http-port":   uint64(8080),
		"ratio":       json.Number("0.75"),
		"enabled":     true,
		"timeout":     "1m30s",
		"tags":        []any{"a", "b"},
		"limits":      map[string]any{"x": 1, "y": "2"},
		"theme":       "dark blue",
		"accent":      "Red",
		"custom-key":  "value",
		"ignored":     "nope",
		"unknown-key": "dropped",
	}

	var settings serverSettings

	err := reg.Decode(raw, &settings)
	require.NoError(t, err)

	assert.Equal(t, "localhost", settings.Host)
	assert.Equal(t, 20, settings.MaxPlayers)
	assert.Equal(t, uint16(8080), settings.HTTPPort)
	assert.InDelta(t, 0.75, settings.Ratio, 1e-9)
	assert.True(t, settings.Enabled)
	assert.Equal(t, 90*time.Second, settings.Timeout)
	assert.Equal(t, []string{"a", "b"}, settings.Tags)
	assert.Equal(t, map[string]int{"x": 1, "y": 2}, settings.Limits)
	assert.Equal(t, colorDarkBlue, settings.Theme)
	require.NotNil(t, settings.Accent)
	assert.Equal(t, colorRed, *settings.Accent)
	assert.Equal(t, "value", settings.Renamed)
	assert.Empty(t, settings.Ignored)
}

func TestRegistry_DecodeStruct_CaseInsensitiveKeys(t *testing.T) {
	t.Parallel()

	reg := codec.NewRegistry()

	var settings serverSettings

	err := reg.Decode(map[string]any{"Max-Players": 5, "HOST": "h"}, &settings)
	require.NoError(t, err)

	assert.Equal(t, 5, settings.MaxPlayers)
	assert.Equal(t, "h", settings.Host)
}

func TestRegistry_RoundTrip(t *testing.T) {
	t.Parallel()

	reg := codec.NewRegistry()
	accent := colorRed

	original := serverSettings{
		Host:       "example.com",
		MaxPlayers: 64,
		HTTPPort:   25565,
		Ratio:      1.5,
		Enabled:    true,
		Timeout:    2 * time.Minute,
		Tags:       []string{"pvp"},
		Limits:     map[string]int{"chunks": 12},
		Theme:      colorDarkBlue,
		Accent:     &accent,
		Renamed:    "kept",
	}

	raw, err := reg.Encode(&original)
	require.NoError(t, err)

	object, ok := raw.(codec.Object)
	require.True(t, ok)
	assert.Equal(t, "host", object[0].Key)

	var decoded serverSettings

	err = reg.Decode(raw, &decoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestRegistry_EncodeKeepsFieldOrder(t *testing.T) {
	t.Parallel()

	reg := codec.NewRegistry()

	raw, err := reg.Encode(serverSettings{})
	require.NoError(t, err)

	object, ok := raw.(codec.Object)
	require.True(t, ok)

	keys := make([]string, 0, len(object))
	for _, field := range object {
		keys = append(keys, field.Key)
	}

	assert.Equal(t, []string{
		"host", "max-players", "http-port", "ratio", "enabled", "timeout",
		"tags", "limits", "theme", "accent", "custom-key",
	}, keys)
}

func TestRegistry_DecodeErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		raw      any
		wantErr  error
		wantPath string
	}{
		{
			name:     "fractional integer",
			raw:      map[string]any{"max-players": 1.5},
			wantErr:  codec.ErrMalformedToken,
			wantPath: "max-players",
		},
		{
			name:     "overflowing port",
			raw:      map[string]any{"http-port": 70000},
			wantErr:  codec.ErrMalformedToken,
			wantPath: "http-port",
		},
		{
			name:     "unknown symbol",
			raw:      map[string]any{"theme": "purple"},
			wantErr:  codec.ErrUnknownSymbol,
			wantPath: "theme",
		},
		{
			name:     "bad list item",
			raw:      map[string]any{"tags": []any{"ok", map[string]any{}}},
			wantErr:  codec.ErrMalformedToken,
			wantPath: "tags[1]",
		},
		{
			name:     "bad map value",
			raw:      map[string]any{"limits": map[string]any{"x": "many"}},
			wantErr:  codec.ErrMalformedToken,
			wantPath: "limits.x",
		},
		{
			name:     "not an object",
			raw:      "just text",
			wantErr:  codec.ErrMalformedToken,
			wantPath: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			reg := codec.NewRegistry()

			var settings serverSettings

			err := reg.Decode(tc.raw, &settings)
			require.Error(t, err)
			require.ErrorIs(t, err, tc.wantErr)
			require.ErrorIs(t, err, codec.ErrCoercion)

			var coercionErr *codec.CoercionError

			require.ErrorAs(t, err, &coercionErr)
			assert.Equal(t, tc.wantPath, coercionErr.Path)
		})
	}
}

func TestRegistry_DecodeInvalidTarget(t *testing.T) {
	t.Parallel()

	reg := codec.NewRegistry()

	var settings serverSettings

	require.ErrorIs(t, reg.Decode(map[string]any{}, settings), codec.ErrInvalidTarget)
	require.ErrorIs(t, reg.Decode(map[string]any{}, (*serverSettings)(nil)), codec.ErrInvalidTarget)
}

func TestRegistry_SymbolNormalization(t *testing.T) {
	t.Parallel()

	reg := codec.NewRegistry()

	for _, token := range []string{"darkBlue", "DARK_BLUE", "dark blue", "Dark-Blue", "  dark_blue "} {
		var value color

		err := reg.Decode(token, &value)
		require.NoError(t, err, token)
		assert.Equal(t, colorDarkBlue, value, token)
	}

	var failures []string

	for _, token := range []string{"navyBlue", "NAVY_BLUE", "navy blue"} {
		var value color

		err := reg.Decode(token, &value)
		require.ErrorIs(t, err, codec.ErrUnknownSymbol)

		var coercionErr *codec.CoercionError

		require.ErrorAs(t, err, &coercionErr)
		failures = append(failures, coercionErr.Reference)
	}

	assert.Equal(t, []string{"NAVY_BLUE", "NAVY_BLUE", "NAVY_BLUE"}, failures)
}

type shade struct {
	Name string
}

func TestRegistry_ExactBeatsCapability(t *testing.T) {
	t.Parallel()

	reg := codec.NewRegistry()

	codec.Register(reg,
		func(_ *codec.Registry, raw any) (color, error) {
			text, _ := raw.(string)
			if strings.HasPrefix(text, "#") {
				return colorRed, nil
			}

			return 0, errors.New("expected a hex color")
		},
		func(_ *codec.Registry, _ color) (any, error) {
			return "#ff0000", nil
		},
	)

	var value color

	require.NoError(t, reg.Decode("#abc", &value))
	assert.Equal(t, colorRed, value)

	err := reg.Decode("red", &value)
	require.ErrorIs(t, err, codec.ErrMalformedToken)

	raw, err := reg.Encode(colorDarkBlue)
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", raw)
}

type namer interface {
	Label() string
}

func (s shade) Label() string { return "shade:" + s.Name }

func TestRegistry_CapabilityLatestWins(t *testing.T) {
	t.Parallel()

	reg := codec.NewRegistry()

	encodeWith := func(prefix string) codec.EncodeFunc {
		return func(_ *codec.Registry, value reflect.Value) (any, error) {
			n, _ := value.Interface().(namer)

			return prefix + n.Label(), nil
		}
	}

	require.NoError(t, codec.RegisterInterface[namer](reg, codec.Codec{Encode: encodeWith("first ")}))

	raw, err := reg.Encode(shade{Name: "grey"})
	require.NoError(t, err)
	assert.Equal(t, "first shade:grey", raw)

	require.NoError(t, codec.RegisterInterface[fmtStringer](reg, codec.Codec{Encode: encodeWith("ignored ")}))
	require.NoError(t, codec.RegisterInterface[namer](reg, codec.Codec{Encode: encodeWith("second ")}))

	raw, err = reg.Encode(shade{Name: "grey"})
	require.NoError(t, err)
	assert.Equal(t, "second shade:grey", raw)

	err = reg.RegisterInterface(reflect.TypeFor[shade](), codec.Codec{})
	require.ErrorIs(t, err, codec.ErrNotInterface)
}

type fmtStringer interface {
	String() string
}

func TestRegistry_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	base := codec.NewRegistry()
	clone := base.Clone()

	codec.RegisterText(clone, codec.TextOptions{Separator: '/'})

	var fromBase, fromClone string

	require.NoError(t, base.Decode(`a\b`, &fromBase))
	require.NoError(t, clone.Decode(`a\b`, &fromClone))

	assert.Equal(t, `a\b`, fromBase)
	assert.Equal(t, "a/b", fromClone)
}

func TestRegistry_MapKeysKeepTheirText(t *testing.T) {
	t.Parallel()

	reg := codec.NewRegistry()
	codec.RegisterText(reg, codec.TextOptions{Separator: '/'})

	var decoded map[string]string

	require.NoError(t, reg.Decode(map[string]any{
		`a\b`: `x\y`,
		"&a":  "&a",
	}, &decoded))

	assert.Equal(t, map[string]string{
		`a\b`: "x/y",
		"&a":  "\u00a7a",
	}, decoded)
}

func TestRegistry_SkipOmitsField(t *testing.T) {
	t.Parallel()

	type withSecret struct {
		Visible string
		Secret  shade
	}

	reg := codec.NewRegistry()
	codec.Register(reg, nil, func(_ *codec.Registry, _ shade) (any, error) {
		return nil, codec.ErrSkip
	})

	raw, err := reg.Encode(withSecret{Visible: "v", Secret: shade{Name: "s"}})
	require.NoError(t, err)

	object, ok := raw.(codec.Object)
	require.True(t, ok)
	require.Len(t, object, 1)
	assert.Equal(t, "visible", object[0].Key)

	// A nil decode falls back to the structural decoder.
	var decoded withSecret

	require.NoError(t, reg.Decode(map[string]any{"secret": map[string]any{"name": "s"}}, &decoded))
	assert.Equal(t, "s", decoded.Secret.Name)
}

func TestRegistry_DecodeAny(t *testing.T) {
	t.Parallel()

	reg := codec.NewRegistry()

	var document map[string]any

	err := reg.Decode(map[string]any{
		"count":  json.Number("3"),
		"ratio":  json.Number("0.5"),
		"nested": map[any]any{"k": []any{json.Number("1")}},
		"empty":  nil,
	}, &document)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"count":  int64(3),
		"ratio":  0.5,
		"nested": map[string]any{"k": []any{int64(1)}},
		"empty":  nil,
	}, document)
}

func TestRegistry_SingleValueBecomesList(t *testing.T) {
	t.Parallel()

	reg := codec.NewRegistry()

	var tags []string

	require.NoError(t, reg.Decode("solo", &tags))
	assert.Equal(t, []string{"solo"}, tags)
}

func TestRegistry_EmbeddedStructsFlatten(t *testing.T) {
	t.Parallel()

	type Base struct {
		Name string
	}

	type extended struct {
		Base
		Level int
	}

	reg := codec.NewRegistry()

	var value extended

	require.NoError(t, reg.Decode(map[string]any{"name": "n", "level": 3}, &value))
	assert.Equal(t, "n", value.Name)
	assert.Equal(t, 3, value.Level)

	raw, err := reg.Encode(value)
	require.NoError(t, err)
	assert.Equal(t, codec.Object{{Key: "name", Value: "n"}, {Key: "level", Value: int64(3)}}, raw)
}
