package admin

import (
	"fmt"
	"log/slog"

	"go.uber.org/fx"
)

// NewModule creates an fx module serving the admin API for the Target
// tagged with name. If any options are passed, the module supplies the
// Config from them; otherwise a Config tagged with name must be provided.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func NewModule(name string, opts ...Option) fx.Option {
	if name == "" {
		return fx.Error(ErrEmptyName)
	}

	tag := fmt.Sprintf(`name:"%s"`, name)

	var moduleOpts []fx.Option

	if len(opts) > 0 {
		var cfg Config

		for _, apply := range opts {
			apply(&cfg)
		}

		moduleOpts = append(moduleOpts, fx.Supply(fx.Annotate(cfg, fx.ResultTags(tag))))
	}

	moduleOpts = append(moduleOpts, fx.Invoke(
		fx.Annotate(
			func(lifecycle fx.Lifecycle, shutdowner fx.Shutdowner, logger *slog.Logger, target Target, cfg Config) error {
				if target == nil {
					return ErrNilTarget
				}

				if logger == nil {
					logger = slog.Default()
				}

				cfg.SetDefaults()

				srv, err := NewServer(name, Wrap(NewHandler(target), cfg, logger), cfg, func() {
					shutdownErr := shutdowner.Shutdown()
					if shutdownErr != nil {
						slog.Error("failed to trigger shutdown", "name", name, "error", shutdownErr)
					}
				})
				if err != nil {
					return err
				}

				srv.logger = logger.With(slog.String("document", name))

				lifecycle.Append(fx.Hook{
					OnStart: srv.Start,
					OnStop:  srv.Stop,
				})

				return nil
			},
			fx.ParamTags("", "", `optional:"true"`, tag, tag),
		),
	))

	return fx.Module("admin."+name, moduleOpts...)
}
