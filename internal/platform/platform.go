//go:build !ios && !android && (amd64 || arm64)

// Package platform provides platform detection and naming rules for pygo.
// It determines how the CPython shared library is named on the current
// operating system.
package platform

import (
	"fmt"
	"runtime"
	"strings"
	"unsafe"
)

// Is64Bit indicates whether the platform is 64-bit.
// pygo only supports 64-bit platforms due to purego limitations.
const Is64Bit = unsafe.Sizeof(uintptr(0)) == 8

// LibraryExtension is the file extension for shared libraries on this platform.
var LibraryExtension string

// LibraryPrefix is the prefix for shared library names on this platform.
var LibraryPrefix string

func init() {
	switch runtime.GOOS {
	case "darwin":
		LibraryExtension = ".dylib"
		LibraryPrefix = "lib"
	case "windows":
		LibraryExtension = ".dll"
		LibraryPrefix = ""
	default: // linux, freebsd, etc.
		LibraryExtension = ".so"
		LibraryPrefix = "lib"
	}
}

// PythonLibraryNames returns the platform-specific candidate filenames for
// the CPython shared library, most specific first. version is the
// "major.minor" string (e.g. "3.12"); an empty version yields the
// version-neutral name.
//
// Examples:
//   - Linux:   PythonLibraryNames("3.12") -> ["libpython3.12.so.1.0", "libpython3.12.so"]
//   - macOS:   PythonLibraryNames("3.12") -> ["libpython3.12.dylib"]
//   - Windows: PythonLibraryNames("3.12") -> ["python312.dll"]
func PythonLibraryNames(version string) []string {
	switch runtime.GOOS {
	case "darwin":
		if version == "" {
			return []string{fmt.Sprintf("%spython3%s", LibraryPrefix, LibraryExtension)}
		}
		return []string{fmt.Sprintf("%spython%s%s", LibraryPrefix, version, LibraryExtension)}
	case "windows":
		if version == "" {
			return []string{"python3.dll"}
		}
		// Windows drops the dot: python312.dll.
		return []string{fmt.Sprintf("python%s.dll", strings.ReplaceAll(version, ".", ""))}
	default: // linux, freebsd
		if version == "" {
			return []string{fmt.Sprintf("%spython3%s", LibraryPrefix, LibraryExtension)}
		}
		base := fmt.Sprintf("%spython%s%s", LibraryPrefix, version, LibraryExtension)
		// Distributions ship the SONAME libpython3.X.so.1.0; the bare .so
		// is usually a dev-package symlink. Try the SONAME first.
		return []string{base + ".1.0", base}
	}
}

// GOOS returns the current operating system.
func GOOS() string {
	return runtime.GOOS
}

// GOARCH returns the current architecture.
func GOARCH() string {
	return runtime.GOARCH
}
