//go:build !ios && !android && (amd64 || arm64)

package pygo

import (
	"errors"

	"github.com/obinnaokechukwu/pygo/internal/bindings"
)

// Common errors
var (
	// ErrNotLoaded indicates the Python library is not loaded.
	ErrNotLoaded = bindings.ErrNotLoaded

	// ErrLibraryNotFound indicates no CPython shared library was found.
	ErrLibraryNotFound = bindings.ErrLibraryNotFound

	// ErrPythonException indicates executed Python code raised an
	// exception. The interpreter prints the traceback itself.
	ErrPythonException = errors.New("pygo: python code raised an exception")
)
