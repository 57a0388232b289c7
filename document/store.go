package document

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"reflect"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/0xalexb/hjarta-conf/codec"
)

// Option configures a Store.
type Option func(*options)

type options struct {
	section string
	source  string
	logger  *slog.Logger
}

// WithSection limits the store to the section at path (colon separated).
// Save merges the section back into the rest of the document.
func WithSection(path string) Option {
	return func(o *options) {
		o.section = path
	}
}

// WithSource names the backing data in errors and logs.
func WithSource(name string) Option {
	return func(o *options) {
		o.source = name
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Store owns one typed document T. Decoding always targets a fresh T that
// replaces the current value only after decode, defaults and validation
// succeed, so a failed load keeps the last good value.
//
// A Store is safe for concurrent use; one mutex serializes the value and
// all I/O.
type Store[T any] struct {
	mu          sync.Mutex
	fetcher     DataFetcher
	parser      Parser
	registry    *codec.Registry
	opts        options
	value       *T
	fingerprint string
}

// New creates a store reading through fetcher and parser and converting
// with registry. A nil registry means codec.NewRegistry().
func New[T any](fetcher DataFetcher, parser Parser, registry *codec.Registry, opts ...Option) *Store[T] {
	o := options{
		section: "",
		source:  "",
		logger:  slog.Default(),
	}

	if named, ok := fetcher.(interface{ Path() string }); ok {
		o.source = named.Path()
	}

	for _, opt := range opts {
		opt(&o)
	}

	if registry == nil {
		registry = codec.NewRegistry()
	}

	return &Store[T]{
		fetcher:  fetcher,
		parser:   parser,
		registry: registry,
		opts:     o,
	}
}

// Load reads and decodes the backing data, replacing the current value.
func (s *Store[T]) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.fetch()
	if err != nil {
		return err
	}

	return s.apply(data)
}

// Reload is Load that skips decoding when the backing data is byte-for-byte
// what was last loaded or saved. It reports whether the value was replaced.
func (s *Store[T]) Reload() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.fetch()
	if err != nil {
		return false, err
	}

	if s.value != nil && fingerprint(data) == s.fingerprint {
		s.opts.logger.Debug("document unchanged", slog.String("source", s.opts.source))

		return false, nil
	}

	err = s.apply(data)
	if err != nil {
		return false, err
	}

	return true, nil
}

// Replace decodes data and, if it is a valid document, writes it to the
// backing storage and makes it the current value.
func (s *Store[T]) Replace(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, err := s.decode(data)
	if err != nil {
		return err
	}

	err = s.write(data)
	if err != nil {
		return err
	}

	s.value = value
	s.fingerprint = fingerprint(data)

	return nil
}

// Save encodes the current value and writes it to the backing storage.
// Encoding runs codecs with side effects (such as counters) even when the
// write then fails.
func (s *Store[T]) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.value == nil {
		return ErrNoValue
	}

	tree, err := s.registry.Encode(s.value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", s.opts.source, err)
	}

	var existing []byte

	if s.opts.section != "" {
		existing, err = s.fetcher.Fetch()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return &IOError{Op: "read", Path: s.opts.source, Err: err}
		}
	}

	data, err := s.parser.Render(tree, existing, s.opts.section)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", s.opts.source, err)
	}

	err = s.write(data)
	if err != nil {
		return err
	}

	s.fingerprint = fingerprint(data)

	s.opts.logger.Debug("document saved",
		slog.String("source", s.opts.source),
		slog.String("fingerprint", s.fingerprint),
	)

	return nil
}

// Value returns the current value, nil until the first successful Load or SetValue.
func (s *Store[T]) Value() *T {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.value
}

// SetValue replaces the current value without touching the backing storage.
// The next Reload decodes the file even if its bytes did not change.
func (s *Store[T]) SetValue(value *T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = value
	s.fingerprint = ""
}

// Fingerprint returns the blake3 hash of the bytes last loaded or saved, empty
// after SetValue until the next load or save.
func (s *Store[T]) Fingerprint() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fingerprint
}

// Source returns the name of the backing data.
func (s *Store[T]) Source() string {
	return s.opts.source
}

func (s *Store[T]) fetch() ([]byte, error) {
	data, err := s.fetcher.Fetch()
	if err != nil {
		return nil, &IOError{Op: "read", Path: s.opts.source, Err: err}
	}

	return data, nil
}

func (s *Store[T]) write(data []byte) error {
	writer, ok := s.fetcher.(DataWriter)
	if !ok {
		return ErrNotWritable
	}

	err := writer.Write(data)
	if err != nil {
		return &IOError{Op: "write", Path: s.opts.source, Err: err}
	}

	return nil
}

func (s *Store[T]) apply(data []byte) error {
	value, err := s.decode(data)
	if err != nil {
		return err
	}

	s.value = value
	s.fingerprint = fingerprint(data)

	s.opts.logger.Debug("document loaded",
		slog.String("source", s.opts.source),
		slog.String("fingerprint", s.fingerprint),
	)

	return nil
}

func (s *Store[T]) decode(data []byte) (*T, error) {
	typ := reflect.TypeFor[T]()

	var tree any

	err := s.parser.Parse(data, &tree, s.opts.section)
	if err != nil {
		if errors.Is(err, ErrPathNotFound) {
			missing := codec.MissingField(nil, typ, s.opts.section)
			missing.Err = err

			return nil, fmt.Errorf("parsing %s: %w", s.opts.source, missing)
		}

		return nil, fmt.Errorf("parsing %s: %w", s.opts.source, codec.Malformed(nil, typ, err))
	}

	target := new(T)

	err = s.registry.Decode(tree, target)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.opts.source, err)
	}

	if defaulter, ok := any(target).(Defaulter); ok {
		if defaulter.SetDefaults() {
			s.opts.logger.Info("defaults applied",
				slog.String("source", s.opts.source),
				slog.String("section", s.opts.section),
			)
		}
	}

	if validator, ok := any(target).(Validator); ok {
		err = validator.Validate()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}

	return target, nil
}

func fingerprint(data []byte) string {
	sum := blake3.Sum256(data)

	return hex.EncodeToString(sum[:])
}
