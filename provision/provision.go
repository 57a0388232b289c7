// Package provision materializes a default document on first run.
//
// A Provisioner copies a bundled default into place when the destination
// does not exist. It never overwrites an existing file.
package provision

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrProvision classifies every provisioning failure.
var ErrProvision = errors.New("provisioning failed")

const (
	dirMode  fs.FileMode = 0o755
	fileMode fs.FileMode = 0o644
)

// Error is a provisioning failure for one destination.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provision %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes ErrProvision and the cause.
func (e *Error) Unwrap() []error {
	return []error{ErrProvision, e.Err}
}

// Provisioner writes a default document to dst if nothing is there yet.
// It reports whether it created the file.
type Provisioner interface {
	Provision(dst string) (created bool, err error)
}

// Func adapts a function to Provisioner.
type Func func(dst string) (bool, error)

// Provision implements Provisioner.
func (f Func) Provision(dst string) (bool, error) { return f(dst) }

type fsProvisioner struct {
	fsys fs.FS
	name string
}

// FromFS provisions from the file name in fsys, typically an embed.FS.
func FromFS(fsys fs.FS, name string) Provisioner {
	return &fsProvisioner{fsys: fsys, name: name}
}

func (p *fsProvisioner) Provision(dst string) (bool, error) {
	if exists(dst) {
		return false, nil
	}

	data, err := fs.ReadFile(p.fsys, p.name)
	if err != nil {
		return false, &Error{Op: "read default", Path: p.name, Err: err}
	}

	return write(dst, data)
}

type bytesProvisioner struct {
	data []byte
}

// FromBytes provisions the given bytes.
func FromBytes(data []byte) Provisioner {
	return &bytesProvisioner{data: data}
}

func (p *bytesProvisioner) Provision(dst string) (bool, error) {
	if exists(dst) {
		return false, nil
	}

	return write(dst, p.data)
}

// FromFile provisions a copy of the file at src.
func FromFile(src string) Provisioner {
	return FromFS(os.DirFS(filepath.Dir(src)), filepath.Base(src))
}

func exists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

func write(dst string, data []byte) (bool, error) {
	err := os.MkdirAll(filepath.Dir(dst), dirMode)
	if err != nil {
		return false, &Error{Op: "mkdir", Path: filepath.Dir(dst), Err: err}
	}

	// O_EXCL loses a race with a concurrent writer instead of clobbering it.
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fileMode) // #nosec G304 -- caller-chosen destination
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}

		return false, &Error{Op: "create", Path: dst, Err: err}
	}

	_, err = f.Write(data)

	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(dst)

		return false, &Error{Op: "write", Path: dst, Err: err}
	}

	return true, nil
}
