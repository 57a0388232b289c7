package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrPathIsDirectory is returned when the path provided to the Fetcher points to a directory instead of a file.
var ErrPathIsDirectory = errors.New("path is a directory, not a file")

const defaultMode fs.FileMode = 0o644

// Fetcher implements document.DataFetcher and document.DataWriter for a
// file on disk. Every Fetch reads the file again.
type Fetcher struct {
	filepath string
}

// NewFetcher returns a constructor function that creates a new file-based Fetcher
// with the specified filepath.
// This pattern is Fx-friendly, allowing the DI container to control when instantiation happens.
// The file does not have to exist yet; an error is returned if the path points
// to a directory or cannot be inspected.
func NewFetcher(fpath string) func() (*Fetcher, error) {
	return func() (*Fetcher, error) {
		cleanPath := filepath.Clean(fpath)

		stat, err := os.Stat(cleanPath)

		switch {
		case errors.Is(err, fs.ErrNotExist):
			// created by the first Write or a provisioner
		case err != nil:
			return nil, fmt.Errorf("stat file %q: %w", cleanPath, err)
		case stat.IsDir():
			return nil, fmt.Errorf("path %q: %w", cleanPath, ErrPathIsDirectory)
		}

		return &Fetcher{
			filepath: cleanPath,
		}, nil
	}
}

// Fetch reads the current file contents.
func (f *Fetcher) Fetch() ([]byte, error) {
	data, err := os.ReadFile(f.filepath) // #nosec G304 -- path is cleaned at construction
	if err != nil {
		return nil, fmt.Errorf("reading file %q: %w", f.filepath, err)
	}

	return data, nil
}

// Write replaces the file contents atomically: data goes to a temporary file
// in the same directory which is then renamed over the target. The mode of
// an existing file is kept.
func (f *Fetcher) Write(data []byte) error {
	mode := defaultMode

	if stat, err := os.Stat(f.filepath); err == nil {
		mode = stat.Mode().Perm()
	}

	dir := filepath.Dir(f.filepath)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.filepath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %q: %w", dir, err)
	}

	tmpName := tmp.Name()

	defer func() {
		_ = os.Remove(tmpName)
	}()

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}

	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("writing temp file %q: %w", tmpName, err)
	}

	err = os.Chmod(tmpName, mode)
	if err != nil {
		return fmt.Errorf("chmod temp file %q: %w", tmpName, err)
	}

	err = os.Rename(tmpName, f.filepath)
	if err != nil {
		return fmt.Errorf("replacing file %q: %w", f.filepath, err)
	}

	return nil
}

// Exists reports whether the file exists.
func (f *Fetcher) Exists() bool {
	_, err := os.Stat(f.filepath)

	return err == nil
}

// Path returns the cleaned file path.
func (f *Fetcher) Path() string {
	return f.filepath
}
