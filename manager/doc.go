// Package manager ties a typed document to its file: it picks a parser from
// the file extension, provisions a default when the file is missing, loads
// the document, watches the file and reloads it on external changes.
//
// Usage:
//
//	m, err := manager.New[Settings]("config/settings.yaml",
//		manager.WithProvisioner(provision.FromFS(defaults, "settings.yaml")),
//		manager.WithOnReload(func() { slog.Info("settings changed") }),
//	)
//	if err != nil {
//		return err
//	}
//
//	if err := m.Init(ctx); err != nil {
//		return err
//	}
//	defer m.Stop()
//
//	settings := m.Value()
//
// NewModule wraps the same lifecycle as an fx module.
package manager
