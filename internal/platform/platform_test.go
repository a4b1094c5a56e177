//go:build !ios && !android && (amd64 || arm64)

package platform

import (
	"runtime"
	"testing"
)

func TestPythonLibraryNames(t *testing.T) {
	names := PythonLibraryNames("3.12")
	if len(names) == 0 {
		t.Fatal("expected at least one candidate name")
	}

	switch runtime.GOOS {
	case "darwin":
		if names[0] != "libpython3.12.dylib" {
			t.Errorf("darwin name: got %q", names[0])
		}
	case "windows":
		if names[0] != "python312.dll" {
			t.Errorf("windows name: got %q", names[0])
		}
	default:
		if names[0] != "libpython3.12.so.1.0" {
			t.Errorf("linux soname: got %q", names[0])
		}
		if len(names) < 2 || names[1] != "libpython3.12.so" {
			t.Errorf("linux fallback: got %v", names)
		}
	}
}

func TestPythonLibraryNamesUnversioned(t *testing.T) {
	names := PythonLibraryNames("")
	if len(names) != 1 {
		t.Fatalf("expected exactly one unversioned candidate, got %v", names)
	}

	switch runtime.GOOS {
	case "windows":
		if names[0] != "python3.dll" {
			t.Errorf("windows unversioned: got %q", names[0])
		}
	case "darwin":
		if names[0] != "libpython3.dylib" {
			t.Errorf("darwin unversioned: got %q", names[0])
		}
	default:
		if names[0] != "libpython3.so" {
			t.Errorf("linux unversioned: got %q", names[0])
		}
	}
}

func TestIs64Bit(t *testing.T) {
	// pygo only targets 64-bit platforms, so this should always hold
	// wherever the package compiles.
	if !Is64Bit {
		t.Error("expected 64-bit platform")
	}
}
