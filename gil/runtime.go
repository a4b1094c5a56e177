// Package gil coordinates shared ownership of reference-counted runtime
// handles across goroutines when every count mutation requires a single
// process-wide exclusive lock (the interpreter's GIL).
//
// Goroutines that do not hold the lock can still clone and drop handles:
// the mutation is queued and applied by the next lock holder. Handles
// created under the lock are recorded into a scoped pool and bulk-released
// when the pool closes.
//
// The package is runtime-agnostic: the interpreter is abstracted behind
// the Runtime interface, and the root pygo package supplies the CPython
// implementation.
package gil

// Handle is an opaque, non-zero pointer to a runtime-managed,
// reference-counted object. Copying a Handle value never touches the
// count; ownership changes go through RegisterIncref/RegisterDecref.
type Handle = uintptr

// GILState is the runtime's opaque token for one lock acquisition.
type GILState = int32

// ThreadState is the runtime's opaque suspended-thread token.
type ThreadState = uintptr

// Runtime is the embedded interpreter whose exclusive lock this package
// manages. Implementations must make EnsureGIL safe to call re-entrantly
// from the same OS thread. DecRef may run arbitrary destructor code,
// including code that re-enters this package.
type Runtime interface {
	// IsInitialized reports whether the interpreter is initialized.
	IsInitialized() bool

	// Initialize initializes the interpreter. When initsigs is false,
	// the interpreter must not install signal handlers.
	Initialize(initsigs bool)

	// Finalize shuts the interpreter down. The lock must be held.
	Finalize()

	// ThreadsInitialized reports whether interpreter threading is ready.
	ThreadsInitialized() bool

	// InitThreads initializes interpreter threading. On runtimes where
	// Initialize already did this, it is a no-op. It leaves the lock
	// held by the calling thread.
	InitThreads()

	// EnsureGIL acquires the exclusive lock for the current OS thread,
	// re-entrantly, and returns the token to release it with.
	EnsureGIL() GILState

	// ReleaseGIL releases one EnsureGIL acquisition.
	ReleaseGIL(GILState)

	// SaveThread releases the lock held by the current thread and
	// returns its suspended state.
	SaveThread() ThreadState

	// RestoreThread reacquires the lock and restores a suspended state.
	RestoreThread(ThreadState)

	// IncRef increments a handle's reference count. Lock must be held.
	IncRef(Handle)

	// DecRef decrements a handle's reference count, freeing on zero and
	// possibly running destructors. Lock must be held.
	DecRef(Handle)
}
