//go:build !ios && !android && (amd64 || arm64)

// Package bindings handles locating and loading the CPython shared library
// and registering function bindings using purego.
package bindings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	"github.com/obinnaokechukwu/pygo/internal/platform"
)

// ErrNotLoaded is returned when Python functions are called before Load().
var ErrNotLoaded = errors.New("pygo: Python library not loaded; call pygo.Init() first")

// ErrLibraryNotFound is returned when no CPython shared library can be found.
var ErrLibraryNotFound = errors.New("pygo: Python library not found")

// EnvLibraryPath names the environment variable that, when set, points at
// the exact CPython shared library to load, bypassing the search.
const EnvLibraryPath = "PYGO_PYTHON_LIBRARY"

// Versions lists the CPython minor versions probed during the search,
// newest first.
var Versions = []string{"3.13", "3.12", "3.11", "3.10", "3.9", "3.8"}

var (
	libPython uintptr

	loaded   bool
	loadOnce sync.Once
	loadErr  error

	logger = zap.NewNop()
)

// Version function binding, registered on load.
var pyGetVersion func() string

// SetLogger replaces the package logger. Pass nil to silence it.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// IsLoaded returns true if the Python library has been successfully loaded.
func IsLoaded() bool {
	return loaded
}

// LibPython returns the handle of the loaded Python library, or 0 if not loaded.
func LibPython() uintptr {
	return libPython
}

// Load locates and loads the CPython shared library.
// It is safe to call multiple times; subsequent calls are no-ops.
// Returns an error if no suitable library can be found or loaded.
func Load() error {
	loadOnce.Do(func() {
		loadErr = doLoad()
		if loadErr == nil {
			loaded = true
		}
	})
	return loadErr
}

func doLoad() error {
	var err error
	libPython, err = loadPythonLibrary()
	if err != nil {
		return err
	}

	purego.RegisterLibFunc(&pyGetVersion, libPython, "Py_GetVersion")
	logger.Debug("loaded Python library", zap.String("version", pyGetVersion()))
	return nil
}

// PythonVersion returns the runtime version string reported by Py_GetVersion.
// Returns "" if the library is not loaded.
func PythonVersion() string {
	if !loaded || pyGetVersion == nil {
		return ""
	}
	return pyGetVersion()
}

// loadPythonLibrary attempts to load libpython, honoring the explicit
// override first, then trying versioned names across the search paths.
func loadPythonLibrary() (uintptr, error) {
	if path := os.Getenv(EnvLibraryPath); path != "" {
		lib, err := tryOpen(path)
		if err != nil {
			return 0, fmt.Errorf("%w: %s (%s): %v", ErrLibraryNotFound, path, EnvLibraryPath, err)
		}
		return lib, nil
	}

	for _, searchPath := range LibrarySearchPaths() {
		for _, ver := range Versions {
			for _, libName := range platform.PythonLibraryNames(ver) {
				lib, err := tryOpen(filepath.Join(searchPath, libName))
				if err == nil {
					return lib, nil
				}
			}
		}
		for _, libName := range platform.PythonLibraryNames("") {
			lib, err := tryOpen(filepath.Join(searchPath, libName))
			if err == nil {
				return lib, nil
			}
		}
	}

	// Try bare names and let the system loader find them.
	for _, ver := range Versions {
		for _, libName := range platform.PythonLibraryNames(ver) {
			lib, err := tryOpen(libName)
			if err == nil {
				return lib, nil
			}
		}
	}
	for _, libName := range platform.PythonLibraryNames("") {
		lib, err := tryOpen(libName)
		if err == nil {
			return lib, nil
		}
	}

	return 0, ErrLibraryNotFound
}

// tryOpen attempts to open a library with RTLD_NOW | RTLD_GLOBAL.
// RTLD_GLOBAL is required: C extension modules loaded later by the
// interpreter resolve their Python symbols against the global namespace.
func tryOpen(path string) (uintptr, error) {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, err
	}
	return lib, nil
}

// FindLibrary searches for the CPython library and returns its full path.
// This is useful for diagnostics.
func FindLibrary() (string, error) {
	if path := os.Getenv(EnvLibraryPath); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	for _, searchPath := range LibrarySearchPaths() {
		for _, ver := range Versions {
			for _, libName := range platform.PythonLibraryNames(ver) {
				fullPath := filepath.Join(searchPath, libName)
				if _, err := os.Stat(fullPath); err == nil {
					return fullPath, nil
				}
			}
		}
	}
	return "", ErrLibraryNotFound
}

// LibrarySearchPaths returns platform-specific library search paths.
func LibrarySearchPaths() []string {
	var paths []string

	switch runtime.GOOS {
	case "linux":
		// Check LD_LIBRARY_PATH first
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		// Standard paths
		paths = append(paths,
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/usr/local/lib",
			"/usr/lib",
			"/lib/x86_64-linux-gnu",
			"/lib",
		)

	case "darwin":
		// Check DYLD_LIBRARY_PATH first
		if dyldPath := os.Getenv("DYLD_LIBRARY_PATH"); dyldPath != "" {
			paths = append(paths, filepath.SplitList(dyldPath)...)
		}
		// Homebrew and framework paths
		paths = append(paths,
			"/opt/homebrew/lib", // Apple Silicon
			"/usr/local/lib",    // Intel
		)
		for _, ver := range Versions {
			paths = append(paths,
				"/opt/homebrew/opt/python@"+ver+"/Frameworks/Python.framework/Versions/"+ver+"/lib",
				"/usr/local/opt/python@"+ver+"/Frameworks/Python.framework/Versions/"+ver+"/lib",
				"/Library/Frameworks/Python.framework/Versions/"+ver+"/lib",
			)
		}

	case "windows":
		// Check PATH
		if winPath := os.Getenv("PATH"); winPath != "" {
			paths = append(paths, filepath.SplitList(winPath)...)
		}
		// Executable directory
		if exe, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Dir(exe))
		}

	case "freebsd":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/local/lib",
			"/usr/lib",
		)
	}

	return paths
}
