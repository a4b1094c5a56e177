//go:build !ios && !android && (amd64 || arm64)

// Package cpython provides low-level bindings to the CPython C API.
// It covers interpreter lifecycle, GIL state, reference counting, and
// code execution. Higher-level types live in the root pygo package.
package cpython

import (
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/obinnaokechukwu/pygo/internal/bindings"
)

// Object is an opaque PyObject pointer. The zero value means "no object".
type Object = uintptr

// GILState is the opaque token returned by PyGILState_Ensure.
type GILState = int32

// ThreadState is an opaque PyThreadState pointer.
type ThreadState = uintptr

// Start tokens for RunString, matching CPython's compile.h values.
const (
	EvalInput   int32 = 258 // a single expression
	FileInput   int32 = 257 // a module body
	SingleInput int32 = 256 // a single interactive statement
)

// Function bindings - registered when init() is called
var (
	pyIsInitialized   func() int32
	pyInitializeEx    func(initsigs int32)
	pyFinalize        func()
	pyGILStateEnsure  func() int32
	pyGILStateRelease func(state int32)
	pyGILStateCheck   func() int32
	pyEvalSaveThread  func() uintptr
	pyEvalRestore     func(state uintptr)
	pyIncRef          func(obj uintptr)
	pyDecRef          func(obj uintptr)

	pyRunSimpleString func(code string) int32
	pyRunString       func(code string, start int32, globals, locals uintptr) uintptr
	pyImportAddModule func(name string) uintptr
	pyModuleGetDict   func(module uintptr) uintptr
	pyObjectStr       func(obj uintptr) uintptr
	pyUnicodeAsUTF8   func(obj uintptr) string
	pyErrOccurred     func() uintptr
	pyErrClear        func()
	pyErrPrint        func()

	// Removed in CPython 3.13; registered only when the symbols exist.
	pyEvalThreadsInitialized func() int32
	pyEvalInitThreads        func()

	bindingsRegistered bool
)

func init() {
	registerBindings()
}

func registerBindings() {
	if bindingsRegistered {
		return
	}

	// Ensure libpython is loaded
	if err := bindings.Load(); err != nil {
		return // Will fail later when functions are called
	}

	lib := bindings.LibPython()
	if lib == 0 {
		return
	}

	purego.RegisterLibFunc(&pyIsInitialized, lib, "Py_IsInitialized")
	purego.RegisterLibFunc(&pyInitializeEx, lib, "Py_InitializeEx")
	purego.RegisterLibFunc(&pyFinalize, lib, "Py_Finalize")
	purego.RegisterLibFunc(&pyGILStateEnsure, lib, "PyGILState_Ensure")
	purego.RegisterLibFunc(&pyGILStateRelease, lib, "PyGILState_Release")
	purego.RegisterLibFunc(&pyGILStateCheck, lib, "PyGILState_Check")
	purego.RegisterLibFunc(&pyEvalSaveThread, lib, "PyEval_SaveThread")
	purego.RegisterLibFunc(&pyEvalRestore, lib, "PyEval_RestoreThread")
	purego.RegisterLibFunc(&pyIncRef, lib, "Py_IncRef")
	purego.RegisterLibFunc(&pyDecRef, lib, "Py_DecRef")

	purego.RegisterLibFunc(&pyRunSimpleString, lib, "PyRun_SimpleString")
	purego.RegisterLibFunc(&pyRunString, lib, "PyRun_String")
	purego.RegisterLibFunc(&pyImportAddModule, lib, "PyImport_AddModule")
	purego.RegisterLibFunc(&pyModuleGetDict, lib, "PyModule_GetDict")
	purego.RegisterLibFunc(&pyObjectStr, lib, "PyObject_Str")
	purego.RegisterLibFunc(&pyUnicodeAsUTF8, lib, "PyUnicode_AsUTF8")
	purego.RegisterLibFunc(&pyErrOccurred, lib, "PyErr_Occurred")
	purego.RegisterLibFunc(&pyErrClear, lib, "PyErr_Clear")
	purego.RegisterLibFunc(&pyErrPrint, lib, "PyErr_Print")

	// Threading setup functions were folded into Py_Initialize in 3.7,
	// deprecated in 3.9, and removed in 3.13. Probe before registering.
	if sym, err := purego.Dlsym(lib, "PyEval_ThreadsInitialized"); err == nil && sym != 0 {
		purego.RegisterLibFunc(&pyEvalThreadsInitialized, lib, "PyEval_ThreadsInitialized")
	}
	if sym, err := purego.Dlsym(lib, "PyEval_InitThreads"); err == nil && sym != 0 {
		purego.RegisterLibFunc(&pyEvalInitThreads, lib, "PyEval_InitThreads")
	}

	bindingsRegistered = true
}

// IsInitialized reports whether the Python interpreter is initialized.
func IsInitialized() bool {
	if pyIsInitialized == nil {
		return false
	}
	return pyIsInitialized() != 0
}

// InitializeEx initializes the Python interpreter.
// If initsigs is false, signal handlers are not installed; use this when
// the interpreter is embedded and the host process owns signal handling.
func InitializeEx(initsigs bool) {
	if pyInitializeEx == nil {
		return
	}
	var v int32
	if initsigs {
		v = 1
	}
	pyInitializeEx(v)
}

// Finalize shuts down the interpreter. The GIL must be held.
func Finalize() {
	if pyFinalize == nil {
		return
	}
	pyFinalize()
}

// ThreadsInitialized reports whether Python threading is initialized.
// On CPython >= 3.7 threading is initialized by Py_Initialize itself, and
// the query symbol is gone in 3.13, so absence of the symbol means
// "initialized iff the interpreter is".
func ThreadsInitialized() bool {
	if pyEvalThreadsInitialized == nil {
		return IsInitialized()
	}
	return pyEvalThreadsInitialized() != 0
}

// InitThreads initializes Python threading. No-op on CPython >= 3.13,
// where Py_Initialize has already done it.
func InitThreads() {
	if pyEvalInitThreads == nil {
		return
	}
	pyEvalInitThreads()
}

// GILStateEnsure acquires the GIL for the current OS thread.
// Safe to call re-entrantly; each call must be paired with GILStateRelease.
func GILStateEnsure() GILState {
	if pyGILStateEnsure == nil {
		return 0
	}
	return pyGILStateEnsure()
}

// GILStateRelease releases the GIL acquisition identified by state.
func GILStateRelease(state GILState) {
	if pyGILStateRelease == nil {
		return
	}
	pyGILStateRelease(state)
}

// GILStateCheck reports whether the current OS thread holds the GIL
// according to the interpreter. Note the caveat on gil.Coordinator.Held:
// this predicate reports true for any thread with a thread state once
// sub-interpreter APIs have been used.
func GILStateCheck() bool {
	if pyGILStateCheck == nil {
		return false
	}
	return pyGILStateCheck() != 0
}

// EvalSaveThread releases the GIL and returns the suspended thread state.
func EvalSaveThread() ThreadState {
	if pyEvalSaveThread == nil {
		return 0
	}
	return pyEvalSaveThread()
}

// EvalRestoreThread reacquires the GIL and restores the thread state.
func EvalRestoreThread(state ThreadState) {
	if pyEvalRestore == nil {
		return
	}
	pyEvalRestore(state)
}

// IncRef increments obj's reference count. The GIL must be held.
func IncRef(obj Object) {
	if obj == 0 || pyIncRef == nil {
		return
	}
	pyIncRef(obj)
}

// DecRef decrements obj's reference count, freeing it on zero.
// The GIL must be held. May run arbitrary destructor code.
func DecRef(obj Object) {
	if obj == 0 || pyDecRef == nil {
		return
	}
	pyDecRef(obj)
}

// RefCount reads obj's current reference count.
//
// There is no C API function for this (Py_REFCNT is a macro); ob_refcnt is
// a Py_ssize_t at offset 0 of every PyObject, so read it directly.
// CPython 3.12+ immortal objects report a saturated count here.
func RefCount(obj Object) int64 {
	if obj == 0 {
		return 0
	}
	return *(*int64)(unsafe.Pointer(obj))
}

// RunSimpleString executes code in the __main__ module.
// Returns false if execution raised; the interpreter prints and clears
// the exception itself. The GIL must be held.
func RunSimpleString(code string) bool {
	if pyRunSimpleString == nil {
		return false
	}
	return pyRunSimpleString(code) == 0
}

// RunString compiles and runs code against the given globals/locals dicts,
// returning a new (owned) reference to the result, or 0 on error.
// The GIL must be held.
func RunString(code string, start int32, globals, locals Object) Object {
	if pyRunString == nil {
		return 0
	}
	return pyRunString(code, start, globals, locals)
}

// ImportAddModule returns a borrowed reference to the named module,
// creating it if needed. Returns 0 on error.
func ImportAddModule(name string) Object {
	if pyImportAddModule == nil {
		return 0
	}
	return pyImportAddModule(name)
}

// ModuleGetDict returns a borrowed reference to the module's dict.
func ModuleGetDict(module Object) Object {
	if module == 0 || pyModuleGetDict == nil {
		return 0
	}
	return pyModuleGetDict(module)
}

// ObjectStr returns a new reference to str(obj), or 0 on error.
func ObjectStr(obj Object) Object {
	if obj == 0 || pyObjectStr == nil {
		return 0
	}
	return pyObjectStr(obj)
}

// UnicodeAsUTF8 returns the UTF-8 contents of a Python str.
// The returned Go string is a copy; obj must be a str object.
func UnicodeAsUTF8(obj Object) string {
	if obj == 0 || pyUnicodeAsUTF8 == nil {
		return ""
	}
	return pyUnicodeAsUTF8(obj)
}

// ErrOccurred returns a borrowed reference to the pending exception type,
// or 0 if none is set.
func ErrOccurred() Object {
	if pyErrOccurred == nil {
		return 0
	}
	return pyErrOccurred()
}

// ErrClear clears the pending exception, if any.
func ErrClear() {
	if pyErrClear == nil {
		return
	}
	pyErrClear()
}

// ErrPrint prints and clears the pending exception.
func ErrPrint() {
	if pyErrPrint == nil {
		return
	}
	pyErrPrint()
}
