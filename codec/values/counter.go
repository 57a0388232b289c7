package values

import (
	"reflect"
	"sync/atomic"

	"github.com/0xalexb/hjarta-conf/codec"
)

// Counter is a persisted sequence. Decoding token n yields a counter at n-1,
// and every encode advances the counter and writes the new value, so the
// next saved number is always one past the last handed out.
//
// Encoding is not idempotent: saving the same document twice writes two
// different numbers.
type Counter struct {
	value atomic.Int64
}

// NewCounter returns a counter holding n.
func NewCounter(n int64) *Counter {
	c := &Counter{}
	c.value.Store(n)

	return c
}

// Load returns the current value.
func (c *Counter) Load() int64 { return c.value.Load() }

// Next advances the counter and returns the new value.
func (c *Counter) Next() int64 { return c.value.Add(1) }

func registerCounter(reg *codec.Registry) {
	codec.Register(reg,
		func(_ *codec.Registry, raw any) (*Counter, error) {
			if raw == nil {
				return nil, nil
			}

			n, err := codec.Int(raw)
			if err != nil {
				return nil, codec.Malformed(raw, reflect.TypeFor[*Counter](), err)
			}

			return NewCounter(n - 1), nil
		},
		func(_ *codec.Registry, value *Counter) (any, error) {
			if value == nil {
				return nil, nil
			}

			return value.Next(), nil
		},
	)
}
