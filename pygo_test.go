//go:build !ios && !android && (amd64 || arm64)

package pygo

import (
	"testing"

	"github.com/obinnaokechukwu/pygo/gil"
)

// requirePython skips tests that need a live libpython.
func requirePython(t *testing.T) bool {
	t.Helper()
	if err := Init(); err != nil {
		t.Skipf("Python library not available: %v", err)
		return false
	}
	return true
}

func TestInitAndVersion(t *testing.T) {
	if !requirePython(t) {
		return
	}
	if !IsLoaded() {
		t.Fatal("IsLoaded should be true after Init")
	}
	if Version() == "" {
		t.Fatal("Version should be non-empty after Init")
	}
}

func TestWithRunString(t *testing.T) {
	if !requirePython(t) {
		return
	}

	err := With(func(py gil.Py) {
		if err := RunString(py, "x = 1 + 1"); err != nil {
			t.Fatalf("RunString failed: %v", err)
		}
		obj, err := Eval(py, "x")
		if err != nil {
			t.Fatalf("Eval failed: %v", err)
		}
		if got := obj.Str(py); got != "2" {
			t.Fatalf("str(x): got %q want %q", got, "2")
		}
	})
	if err != nil {
		t.Fatalf("With failed: %v", err)
	}
}

func TestRunStringRaises(t *testing.T) {
	if !requirePython(t) {
		return
	}

	err := With(func(py gil.Py) {
		if err := RunString(py, "raise ValueError('boom')"); err != ErrPythonException {
			t.Fatalf("expected ErrPythonException, got %v", err)
		}
	})
	if err != nil {
		t.Fatalf("With failed: %v", err)
	}
}

func TestEvalResultIsPoolOwned(t *testing.T) {
	if !requirePython(t) {
		return
	}

	var kept *Object
	err := With(func(py gil.Py) {
		obj, err := Eval(py, "object()")
		if err != nil {
			t.Fatalf("Eval failed: %v", err)
		}
		if got := obj.Refcnt(); got != 1 {
			t.Fatalf("fresh object refcnt: got %d want 1", got)
		}

		// An independent clone outlives the pool.
		kept = obj.Clone()
		if got := obj.Refcnt(); got != 2 {
			t.Fatalf("refcnt after clone: got %d want 2", got)
		}
	})
	if err != nil {
		t.Fatalf("With failed: %v", err)
	}

	// The pool-owned reference is gone; only the clone remains.
	err = With(func(py gil.Py) {
		if got := kept.Refcnt(); got != 1 {
			t.Fatalf("refcnt after pool close: got %d want 1", got)
		}
		kept.Release()
	})
	if err != nil {
		t.Fatalf("With failed: %v", err)
	}
}

func TestCloneWithoutGIL(t *testing.T) {
	if !requirePython(t) {
		return
	}

	var obj *Object
	err := With(func(py gil.Py) {
		res, err := Eval(py, "object()")
		if err != nil {
			t.Fatalf("Eval failed: %v", err)
		}
		obj = res.Clone()
	})
	if err != nil {
		t.Fatalf("With failed: %v", err)
	}

	// Without the lock the clone's incref is deferred.
	clone := obj.Clone()

	err = With(func(py gil.Py) {
		// Acquiring drained the pending incref.
		if got := obj.Refcnt(); got != 2 {
			t.Fatalf("refcnt after drain: got %d want 2", got)
		}
	})
	if err != nil {
		t.Fatalf("With failed: %v", err)
	}

	clone.Release()
	obj.Release()

	err = With(func(py gil.Py) {})
	if err != nil {
		t.Fatalf("With failed: %v", err)
	}
}
