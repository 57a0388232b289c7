package manager

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"
)

// NewModule creates an fx module providing a *Manager[T] tagged with name.
// The manager is initialized on start and stops watching on stop. A logger
// supplied to the app is used unless opts set one.
//
//nolint:ireturn
func NewModule[T any](name, path string, opts ...Option) fx.Option {
	if name == "" {
		return fx.Error(ErrEmptyName)
	}

	tag := fmt.Sprintf(`name:"%s"`, name)

	constructor := func(lifecycle fx.Lifecycle, logger *slog.Logger) (*Manager[T], error) {
		base := []Option{WithName(name)}
		if logger != nil {
			base = append(base, WithLogger(logger))
		}

		m, err := New[T](path, append(base, opts...)...)
		if err != nil {
			return nil, err
		}

		lifecycle.Append(fx.Hook{
			OnStart: m.Init,
			OnStop: func(context.Context) error {
				return m.Stop()
			},
		})

		return m, nil
	}

	return fx.Module(name,
		fx.Provide(fx.Annotate(constructor,
			fx.ParamTags(``, `optional:"true"`),
			fx.ResultTags(tag),
		)),
		fx.Invoke(fx.Annotate(func(*Manager[T]) {}, fx.ParamTags(tag))),
	)
}
