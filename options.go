package conf

import (
	"fmt"
	"io"

	"go.uber.org/fx"

	"github.com/0xalexb/hjarta-conf/admin"
	"github.com/0xalexb/hjarta-conf/manager"
)

// Options holds configuration settings for the application.
type Options struct {
	Modules   []fx.Option
	LogLevel  string
	LogFormat string
	LogOutput io.Writer
}

// Option defines a function type for applying configuration options.
type Option func(*Options)

// WithModules adds fx modules to the application.
func WithModules(modules ...fx.Option) Option {
	return func(opts *Options) {
		opts.Modules = append(opts.Modules, modules...)
	}
}

// WithManager adds a manager for the document at path. The *manager.Manager[T]
// and an admin.Target backed by it are provided under the named tag name.
func WithManager[T any](name, path string, opts ...manager.Option) Option {
	return func(o *Options) {
		tag := fmt.Sprintf(`name:"%s"`, name)

		o.Modules = append(o.Modules,
			manager.NewModule[T](name, path, opts...),
			fx.Provide(fx.Annotate(
				func(m *manager.Manager[T]) admin.Target { return m },
				fx.ParamTags(tag),
				fx.ResultTags(tag),
			)),
		)
	}
}

// WithAdmin serves the admin API for the document registered as name.
// When options are provided (e.g., WithAddress), the admin Config is supplied
// automatically.
func WithAdmin(name string, opts ...admin.Option) Option {
	return func(o *Options) {
		o.Modules = append(o.Modules, admin.NewModule(name, opts...))
	}
}

// WithLogLevel sets the log level for the application.
// Valid levels are: "debug", "info", "warn", "error".
// If not set or invalid, defaults to "info".
func WithLogLevel(level string) Option {
	return func(opts *Options) {
		opts.LogLevel = level
	}
}

// WithLogFormat selects "json" (default) or "text" log output.
func WithLogFormat(format string) Option {
	return func(opts *Options) {
		opts.LogFormat = format
	}
}

// WithLogOutput sends logs to w instead of stderr.
func WithLogOutput(w io.Writer) Option {
	return func(opts *Options) {
		opts.LogOutput = w
	}
}
