//go:build !ios && !android && (amd64 || arm64)

package cpython

import (
	"testing"

	"github.com/obinnaokechukwu/pygo/internal/bindings"
)

// requirePython skips tests that need a live libpython.
func requirePython(t *testing.T) bool {
	t.Helper()
	if err := bindings.Load(); err != nil {
		t.Skipf("Python library not available: %v", err)
		return false
	}
	return true
}

// initPython initializes the interpreter if needed and leaves the GIL
// released, so tests acquire it uniformly via GILStateEnsure.
func initPython(t *testing.T) {
	t.Helper()
	if !IsInitialized() {
		InitializeEx(false)
		InitThreads()
		EvalSaveThread()
	}
}

func TestGILStateRoundTrip(t *testing.T) {
	if !requirePython(t) {
		return
	}
	initPython(t)

	state := GILStateEnsure()
	defer GILStateRelease(state)

	if !ThreadsInitialized() {
		t.Fatal("threading should be initialized")
	}
	if !GILStateCheck() {
		t.Fatal("GILStateCheck should report held inside an Ensure/Release pair")
	}
}

func TestRefCountRoundTrip(t *testing.T) {
	if !requirePython(t) {
		return
	}
	initPython(t)

	state := GILStateEnsure()
	defer GILStateRelease(state)

	main := ImportAddModule("__main__")
	if main == 0 {
		t.Fatal("__main__ not available")
	}
	globals := ModuleGetDict(main)

	obj := RunString("object()", EvalInput, globals, globals)
	if obj == 0 {
		ErrPrint()
		t.Fatal("RunString returned no object")
	}

	before := RefCount(obj)
	IncRef(obj)
	if got := RefCount(obj); got != before+1 {
		t.Fatalf("refcnt after IncRef: got %d want %d", got, before+1)
	}
	DecRef(obj)
	if got := RefCount(obj); got != before {
		t.Fatalf("refcnt after DecRef: got %d want %d", got, before)
	}
	DecRef(obj)
}

func TestRunSimpleString(t *testing.T) {
	if !requirePython(t) {
		return
	}
	initPython(t)

	state := GILStateEnsure()
	defer GILStateRelease(state)

	if !RunSimpleString("y = sum(range(10))") {
		t.Fatal("RunSimpleString failed on valid code")
	}
	if RunSimpleString("this is not python") {
		t.Fatal("RunSimpleString should report failure on a syntax error")
	}
}
