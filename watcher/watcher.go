package watcher

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last file event before a
// reload is scheduled.
const DefaultDebounce = 100 * time.Millisecond

// State is the lifecycle state of a Watcher.
type State int32

// Watcher states.
const (
	StateIdle State = iota
	StateWatching
	StateReloading
	StateStopped
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWatching:
		return "watching"
	case StateReloading:
		return "reloading"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Handler is called with the watched path after the file changed.
type Handler func(path string)

// Option configures a Watcher.
type Option func(*options)

type options struct {
	debounce     time.Duration
	logger       *slog.Logger
	errorHandler func(error)
}

// WithDebounce sets the quiet period before a reload. Zero schedules a
// reload on every event.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithErrorHandler receives errors reported by the file system notifier.
func WithErrorHandler(handler func(error)) Option {
	return func(o *options) {
		o.errorHandler = handler
	}
}

// Watcher watches one file and calls a handler when it changes.
//
// Reloads run on a goroutine owned by the subscription, one at a time.
// Changes observed while a reload is running coalesce into a single trailing
// reload.
type Watcher struct {
	opts options

	mu    sync.Mutex
	sub   *subscription
	done  chan struct{}
	state atomic.Int32
}

// New creates an idle watcher.
func New(opts ...Option) *Watcher {
	o := options{
		debounce:     DefaultDebounce,
		logger:       slog.Default(),
		errorHandler: nil,
	}

	for _, opt := range opts {
		opt(&o)
	}

	done := make(chan struct{})
	close(done)

	return &Watcher{
		opts: o,
		done: done,
	}
}

// Start watches path and calls handler after each change. A running
// subscription is stopped first. The parent directory must exist; the file
// itself may appear later.
func (w *Watcher) Start(path string, handler Handler) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	previous := w.done

	err = w.stopLocked()
	if err != nil {
		w.opts.logger.Warn("closing previous subscription", slog.String("error", err.Error()))
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating notifier: %w", err)
	}

	// The directory is watched so atomic replacements of the file are seen.
	err = fsw.Add(filepath.Dir(absPath))
	if err != nil {
		_ = fsw.Close()

		return fmt.Errorf("watching %q: %w", filepath.Dir(absPath), err)
	}

	sub := &subscription{
		watcher:  w,
		fsw:      fsw,
		path:     absPath,
		handler:  handler,
		pending:  make(chan struct{}, 1),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		previous: previous,
	}

	w.sub = sub
	w.done = sub.done

	// A reload of the replaced subscription may still be running; it moves
	// the state back to watching when it returns.
	if w.State() != StateReloading {
		w.state.Store(int32(StateWatching))
	}

	sub.wg.Add(2)

	go sub.eventLoop()
	go sub.reloadLoop()

	go func() {
		sub.wg.Wait()
		close(sub.done)
	}()

	w.opts.logger.Debug("watching file",
		slog.String("path", absPath),
		slog.Duration("debounce", w.opts.debounce),
	)

	return nil
}

// Stop releases the file subscription. A reload already running is not
// interrupted; Done reports when it has finished.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	err := w.stopLocked()
	w.state.Store(int32(StateStopped))

	return err
}

// Done is closed when the goroutines of the latest subscription have exited.
func (w *Watcher) Done() <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.done
}

// State returns the current lifecycle state.
func (w *Watcher) State() State {
	return State(w.state.Load())
}

// Path returns the watched absolute path, empty when not watching.
func (w *Watcher) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sub == nil {
		return ""
	}

	return w.sub.path
}

func (w *Watcher) stopLocked() error {
	sub := w.sub
	if sub == nil {
		return nil
	}

	w.sub = nil

	close(sub.quit)
	sub.stopTimer()

	err := sub.fsw.Close()
	if err != nil {
		return fmt.Errorf("closing notifier: %w", err)
	}

	w.opts.logger.Debug("stopped watching file", slog.String("path", sub.path))

	return nil
}

func (w *Watcher) reportError(err error) {
	w.opts.logger.Error("file watcher error", slog.String("error", err.Error()))

	if w.opts.errorHandler != nil {
		w.opts.errorHandler(err)
	}
}

// subscription is one Start call: a notifier, its goroutines and a
// one-slot queue of pending reloads.
type subscription struct {
	watcher *Watcher
	fsw     *fsnotify.Watcher
	path    string
	handler Handler

	pending  chan struct{}
	quit     chan struct{}
	done     chan struct{}
	previous <-chan struct{}
	wg       sync.WaitGroup

	timerMu sync.Mutex
	timer   *time.Timer
}

func (s *subscription) eventLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.quit:
			return
		case event, ok := <-s.fsw.Events:
			if !ok {
				return
			}

			if s.relevant(event) {
				s.schedule()
			}
		case err, ok := <-s.fsw.Errors:
			if !ok {
				return
			}

			s.watcher.reportError(err)
		}
	}
}

func (s *subscription) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != s.path {
		return false
	}

	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename)
}

// schedule restarts the debounce timer, or enqueues directly without one.
func (s *subscription) schedule() {
	debounce := s.watcher.opts.debounce
	if debounce <= 0 {
		s.enqueue()

		return
	}

	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if s.timer == nil {
		s.timer = time.AfterFunc(debounce, s.enqueue)

		return
	}

	s.timer.Reset(debounce)
}

func (s *subscription) stopTimer() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
}

// enqueue marks a reload as pending. At most one reload waits behind the
// running one; further requests are absorbed by it.
func (s *subscription) enqueue() {
	select {
	case <-s.quit:
	case s.pending <- struct{}{}:
	default:
	}
}

func (s *subscription) reloadLoop() {
	defer s.wg.Done()

	// Reloads of the replaced subscription finish before this one starts any.
	select {
	case <-s.quit:
		return
	case <-s.previous:
	}

	for {
		select {
		case <-s.quit:
			return
		case <-s.pending:
			s.run()
		}
	}
}

func (s *subscription) run() {
	select {
	case <-s.quit:
		return
	default:
	}

	state := &s.watcher.state
	state.CompareAndSwap(int32(StateWatching), int32(StateReloading))

	defer state.CompareAndSwap(int32(StateReloading), int32(StateWatching))

	defer func() {
		if r := recover(); r != nil {
			s.watcher.opts.logger.Error("reload handler panicked",
				slog.String("path", s.path),
				slog.Any("panic", r),
			)
		}
	}()

	s.handler(s.path)
}
