package manager

import (
	"log/slog"
	"time"

	"github.com/0xalexb/hjarta-conf/codec"
	"github.com/0xalexb/hjarta-conf/document"
	"github.com/0xalexb/hjarta-conf/provision"
)

// Option defines a function type for configuring a Manager.
type Option func(*options)

type options struct {
	name         string
	registry     *codec.Registry
	parser       document.Parser
	section      string
	provisioner  provision.Provisioner
	onReload     func()
	errorHandler func(error)
	logger       *slog.Logger
	debounce     time.Duration
	watch        bool
}

// WithName names the document in logs and DI tags. Defaults to the file name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithRegistry sets the codec registry. The default is codec.NewRegistry
// with the text rule; pass codec.NewRegistry() alone to decode strings as is.
func WithRegistry(registry *codec.Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// WithParser sets the parser instead of choosing one from the file extension.
func WithParser(parser document.Parser) Option {
	return func(o *options) {
		o.parser = parser
	}
}

// WithSection limits the manager to one section of the file (colon separated).
func WithSection(path string) Option {
	return func(o *options) {
		o.section = path
	}
}

// WithProvisioner materializes a default document when the file is missing at Init.
func WithProvisioner(provisioner provision.Provisioner) Option {
	return func(o *options) {
		o.provisioner = provisioner
	}
}

// WithOnReload sets the hook called after each reload that replaced the value.
func WithOnReload(hook func()) Option {
	return func(o *options) {
		o.onReload = hook
	}
}

// WithErrorHandler receives failures from background reloads.
func WithErrorHandler(handler func(error)) Option {
	return func(o *options) {
		o.errorHandler = handler
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDebounce sets the quiet period between a file change and the reload.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithoutWatch disables file watching; Init only provisions and loads.
func WithoutWatch() Option {
	return func(o *options) {
		o.watch = false
	}
}
