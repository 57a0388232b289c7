package admin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xalexb/hjarta-conf/admin/middleware"
)

func TestConfig_SetDefaults(t *testing.T) {
	t.Parallel()

	t.Run("fills empty fields", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{}
		cfg.SetDefaults()

		assert.Equal(t, DefaultAddress, cfg.Address)
		assert.Equal(t, middleware.DefaultMaxBodyBytes, cfg.MaxBodyBytes)
		assert.Equal(t, middleware.DefaultTimeout, cfg.RequestTimeout)
	})

	t.Run("keeps set fields", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{Address: ":9090", MaxBodyBytes: 10, RequestTimeout: time.Second}
		cfg.SetDefaults()

		assert.Equal(t, Config{Address: ":9090", MaxBodyBytes: 10, RequestTimeout: time.Second}, *cfg)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, (&Config{Address: ":8080"}).Validate())
	require.ErrorIs(t, (&Config{}).Validate(), ErrEmptyAddress)
}

func TestOptions(t *testing.T) {
	t.Parallel()

	var cfg Config

	for _, apply := range []Option{WithAddress(":1"), WithMaxBodyBytes(2), WithRequestTimeout(3 * time.Second)} {
		apply(&cfg)
	}

	assert.Equal(t, Config{Address: ":1", MaxBodyBytes: 2, RequestTimeout: 3 * time.Second}, cfg)
}
