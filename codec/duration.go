package codec

import (
	"reflect"
	"time"
)

// registerDuration accepts Go duration strings ("1m30s") or integer
// nanoseconds and writes the string form.
func registerDuration(reg *Registry) {
	Register(reg,
		func(_ *Registry, raw any) (time.Duration, error) {
			if text, ok := raw.(string); ok {
				parsed, err := time.ParseDuration(text)
				if err != nil {
					return 0, Malformed(raw, reflect.TypeFor[time.Duration](), err)
				}

				return parsed, nil
			}

			n, err := Int(raw)
			if err != nil {
				return 0, Malformed(raw, reflect.TypeFor[time.Duration](), err)
			}

			return time.Duration(n), nil
		},
		func(_ *Registry, value time.Duration) (any, error) {
			return value.String(), nil
		},
	)
}
