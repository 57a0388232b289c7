package document

import (
	"errors"
	"fmt"
)

// ErrIO classifies failures reading or writing the backing data.
var ErrIO = errors.New("document i/o failure")

// ErrNoValue is returned by Save when nothing has been loaded or set.
var ErrNoValue = errors.New("document has no value")

// ErrValidation wraps errors returned by a Validator.
var ErrValidation = errors.New("validation failed")

// ErrNotWritable is returned by Save when the DataFetcher cannot write.
var ErrNotWritable = errors.New("document source is not writable")

// ErrEmptyData is returned by parsers when the input data is empty.
var ErrEmptyData = errors.New("empty data")

// ErrPathNotFound is returned by parsers when the section path is absent.
var ErrPathNotFound = errors.New("path not found")

// IOError is a read or write failure on the backing data.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes ErrIO and the cause.
func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}
