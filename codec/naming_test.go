package codec_test

import (
	"testing"

	"github.com/0xalexb/hjarta-conf/codec"

	"github.com/stretchr/testify/assert"
)

func TestFieldName(t *testing.T) {
	t.Parallel()

	testCases := map[string]string{
		"Host":          "host",
		"MaxPlayers":    "max-players",
		"HTTPPort":      "http-port",
		"ServerURL":     "server-url",
		"Level2Spawns":  "level2-spawns",
		"already_snake": "already-snake",
	}

	for input, expected := range testCases {
		assert.Equal(t, expected, codec.FieldName(input), input)
	}
}

func TestNormalizeSymbol(t *testing.T) {
	t.Parallel()

	testCases := map[string]string{
		"redstone torch": "REDSTONE_TORCH",
		"redstoneTorch":  "REDSTONE_TORCH",
		"REDSTONE_TORCH": "REDSTONE_TORCH",
		"Redstone-Torch": "REDSTONE_TORCH",
		" stone ":        "STONE",
		"TNT":            "TNT",
		"":               "",
	}

	for input, expected := range testCases {
		assert.Equal(t, expected, codec.NormalizeSymbol(input), input)
	}
}
