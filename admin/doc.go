// Package admin exposes a managed document over HTTP: read the file, replace
// it with a validated body, trigger a reload or save the in-memory value.
//
// The endpoint runs as an fx module bound to a named Target:
//
//	fx.New(
//		manager.NewModule[Settings]("settings", "settings.yaml"),
//		fx.Provide(fx.Annotate(
//			func(m *manager.Manager[Settings]) admin.Target { return m },
//			fx.ParamTags(`name:"settings"`),
//			fx.ResultTags(`name:"settings"`),
//		)),
//		admin.NewModule("settings", admin.WithAddress("127.0.0.1:7070")),
//	)
//
// The root conf package wires both with conf.WithManager and conf.WithAdmin.
package admin
