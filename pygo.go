//go:build !ios && !android && (amd64 || arm64)

// Package pygo provides bindings to an embedded CPython interpreter
// without CGO, using purego. The interpreter's global interpreter lock is
// coordinated by the gil package: any goroutine may clone or drop object
// references at any time, and code that needs the interpreter runs inside
// With, which acquires the lock and releases created objects on exit.
//
// For advanced use the low-level cpython package is available; its
// functions require the GIL unless documented otherwise.
package pygo

import (
	"github.com/obinnaokechukwu/pygo/cpython"
	"github.com/obinnaokechukwu/pygo/gil"
	"github.com/obinnaokechukwu/pygo/internal/bindings"
)

// coordinator is the process-wide GIL coordinator over libpython.
var coordinator = gil.New(pyRuntime{})

// Init locates and loads the Python shared library. This is called
// automatically by With, but can be called explicitly to check for
// errors. It is safe to call multiple times.
//
// Init only loads the library; the interpreter itself is initialized
// lazily on the first With (or GIL().Prepare()).
func Init() error {
	return bindings.Load()
}

// IsLoaded returns true if the Python library has been successfully loaded.
func IsLoaded() bool {
	return bindings.IsLoaded()
}

// Version returns the Python runtime version string, or "" if the library
// is not loaded.
func Version() string {
	return bindings.PythonVersion()
}

// GIL returns the process-wide GIL coordinator, for callers that need the
// lower-level guard, pool, or deferred-registration surface directly.
func GIL() *gil.Coordinator {
	return coordinator
}

// With runs f with the interpreter initialized and its lock held on the
// calling goroutine. Objects created by f through this package are
// released when f returns, unless independently cloned. Safe to call
// re-entrantly from within f.
func With(f func(gil.Py)) error {
	if err := Init(); err != nil {
		return err
	}
	coordinator.Do(f)
	return nil
}

// RunString executes code as statements in the __main__ module.
// The py token proves the lock is held. If the code raises, the
// interpreter prints and clears the exception and RunString returns
// ErrPythonException.
func RunString(py gil.Py, code string) error {
	if !cpython.RunSimpleString(code) {
		return ErrPythonException
	}
	return nil
}

// Eval evaluates a single expression in the __main__ module and returns
// the result as a pool-owned Object: it is released automatically when
// the enclosing With (or pool) ends. Clone it to keep a reference beyond
// that.
func Eval(py gil.Py, expr string) (*Object, error) {
	main := cpython.ImportAddModule("__main__")
	if main == 0 {
		cpython.ErrClear()
		return nil, ErrPythonException
	}
	globals := cpython.ModuleGetDict(main)

	res := cpython.RunString(expr, cpython.EvalInput, globals, globals)
	if res == 0 {
		cpython.ErrPrint()
		return nil, ErrPythonException
	}
	coordinator.RegisterOwned(res)
	return &Object{ptr: res, pooled: true}, nil
}
