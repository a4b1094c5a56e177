//go:build !ios && !android && (amd64 || arm64)

package bindings

import "testing"

func TestLibrarySearchPaths(t *testing.T) {
	paths := LibrarySearchPaths()
	if len(paths) == 0 {
		t.Fatal("expected at least one search path")
	}
	for _, p := range paths {
		if p == "" {
			t.Error("search path list contains an empty entry")
		}
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	err1 := Load()
	err2 := Load()
	if (err1 == nil) != (err2 == nil) {
		t.Fatalf("Load not idempotent: first=%v second=%v", err1, err2)
	}
	if err1 != nil {
		t.Skipf("Python library not available: %v", err1)
	}
	if !IsLoaded() {
		t.Error("IsLoaded should report true after successful Load")
	}
	if LibPython() == 0 {
		t.Error("LibPython should return a non-zero handle after Load")
	}
	if PythonVersion() == "" {
		t.Error("PythonVersion should be non-empty after Load")
	}
}
