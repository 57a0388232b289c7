package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/0xalexb/hjarta-conf/codec"
	"github.com/0xalexb/hjarta-conf/document"
	"github.com/0xalexb/hjarta-conf/document/fetcher/file"
	"github.com/0xalexb/hjarta-conf/document/parser/json"
	"github.com/0xalexb/hjarta-conf/document/parser/toml"
	"github.com/0xalexb/hjarta-conf/document/parser/yaml"
	"github.com/0xalexb/hjarta-conf/watcher"
)

var (
	// ErrUnknownFormat is returned when no parser matches the file extension.
	ErrUnknownFormat = errors.New("unknown document format")
	// ErrEmptyName is returned when a module is created without a name.
	ErrEmptyName = errors.New("manager name cannot be empty")
)

// ParserFor returns the parser matching the extension of path.
func ParserFor(path string) (document.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.NewParser(), nil
	case ".json", ".jsonc":
		return json.NewParser(), nil
	case ".toml":
		return toml.NewParser(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Manager owns one typed document T backed by one file. It loads the file,
// watches it for external changes and writes the in-memory value back.
type Manager[T any] struct {
	name    string
	path    string
	opts    options
	fetcher *file.Fetcher
	store   *document.Store[T]
	watcher *watcher.Watcher

	mu       sync.Mutex
	onReload func()
}

// New creates a manager for the file at path. Nothing is read until Init or Load.
func New[T any](path string, opts ...Option) (*Manager[T], error) {
	o := options{
		name:         "",
		registry:     nil,
		parser:       nil,
		section:      "",
		provisioner:  nil,
		onReload:     nil,
		errorHandler: nil,
		logger:       slog.Default(),
		debounce:     watcher.DefaultDebounce,
		watch:        true,
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.name == "" {
		o.name = filepath.Base(path)
	}

	if o.registry == nil {
		o.registry = codec.NewRegistry()
		codec.RegisterText(o.registry, codec.TextOptions{})
	}

	if o.parser == nil {
		parser, err := ParserFor(path)
		if err != nil {
			return nil, err
		}

		o.parser = parser
	}

	fetcher, err := file.NewFetcher(path)()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", o.name, err)
	}

	logger := o.logger.With(slog.String("document", o.name))

	m := &Manager[T]{
		name:    o.name,
		path:    fetcher.Path(),
		opts:    o,
		fetcher: fetcher,
		store: document.New[T](fetcher, o.parser, o.registry,
			document.WithSection(o.section),
			document.WithLogger(logger),
		),
		onReload: o.onReload,
	}

	m.watcher = watcher.New(
		watcher.WithDebounce(o.debounce),
		watcher.WithLogger(logger),
		watcher.WithErrorHandler(m.reportError),
	)

	return m, nil
}

// Init provisions the default document when the file is missing, loads it and
// starts watching for changes.
func (m *Manager[T]) Init(ctx context.Context) error {
	err := ctx.Err()
	if err != nil {
		return err
	}

	if m.opts.provisioner != nil {
		created, err := m.opts.provisioner.Provision(m.path)
		if err != nil {
			return err
		}

		if created {
			m.opts.logger.Info("default document provisioned",
				slog.String("document", m.name),
				slog.String("path", m.path),
			)
		}
	}

	err = m.store.Load()
	if err != nil {
		return err
	}

	if !m.opts.watch {
		return nil
	}

	return m.watcher.Start(m.path, m.handleChange)
}

// Load reads the file again, keeping the current value on failure.
func (m *Manager[T]) Load() error {
	return m.store.Load()
}

// Reload reads the file and, if its content changed since the last load or
// save, replaces the value and calls the reload hook.
func (m *Manager[T]) Reload() error {
	changed, err := m.store.Reload()
	if err != nil {
		return err
	}

	if changed {
		m.notify("")
	}

	return nil
}

// Save writes the current value to the file. The watcher does not report the
// write back as a change.
func (m *Manager[T]) Save() error {
	return m.store.Save()
}

// Value returns the current value, nil before the first successful load.
func (m *Manager[T]) Value() *T {
	return m.store.Value()
}

// SetValue replaces the value in memory. Call Save to persist it.
func (m *Manager[T]) SetValue(value *T) {
	m.store.SetValue(value)
}

// Raw returns the current file content.
func (m *Manager[T]) Raw() ([]byte, error) {
	data, err := m.fetcher.Fetch()
	if err != nil {
		return nil, &document.IOError{Op: "read", Path: m.path, Err: err}
	}

	return data, nil
}

// Replace validates data as a complete document, writes it to the file and
// makes it the current value.
func (m *Manager[T]) Replace(data []byte) error {
	err := m.store.Replace(data)
	if err != nil {
		return err
	}

	m.notify("")

	return nil
}

// SetOnReload replaces the reload hook.
func (m *Manager[T]) SetOnReload(hook func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onReload = hook
}

// Stop stops watching the file. A reload in progress completes; Done reports
// when it has.
func (m *Manager[T]) Stop() error {
	return m.watcher.Stop()
}

// Done is closed once no reload is running after Stop.
func (m *Manager[T]) Done() <-chan struct{} {
	return m.watcher.Done()
}

// Path returns the cleaned path of the backing file.
func (m *Manager[T]) Path() string {
	return m.path
}

// Name returns the document name used in logs and DI tags.
func (m *Manager[T]) Name() string {
	return m.name
}

func (m *Manager[T]) handleChange(string) {
	reloadID := uuid.NewString()

	changed, err := m.store.Reload()
	if err != nil {
		m.opts.logger.Error("reload failed",
			slog.String("document", m.name),
			slog.String("reload_id", reloadID),
			slog.String("error", err.Error()),
		)

		if m.opts.errorHandler != nil {
			m.opts.errorHandler(err)
		}

		return
	}

	if changed {
		m.notify(reloadID)
	}
}

func (m *Manager[T]) notify(reloadID string) {
	attrs := []any{slog.String("document", m.name), slog.String("path", m.path)}
	if reloadID != "" {
		attrs = append(attrs, slog.String("reload_id", reloadID))
	}

	m.opts.logger.Info("document reloaded", attrs...)

	m.mu.Lock()
	hook := m.onReload
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
}

func (m *Manager[T]) reportError(err error) {
	if m.opts.errorHandler != nil {
		m.opts.errorHandler(err)
	}
}
