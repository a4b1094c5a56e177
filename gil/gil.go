package gil

import (
	"runtime"
	"sync"

	"github.com/dc0d/onexit"
	"github.com/jtolds/gls"
	"go.uber.org/zap"
)

var logger = zap.NewNop()

// SetLogger replaces the package logger. Pass nil to silence it.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// Coordinator manages one runtime's exclusive lock. Create it with New and
// share the single instance process-wide; two Coordinators over the same
// runtime would each believe they own the deferred queues.
type Coordinator struct {
	rt Runtime

	prepareOnce sync.Once

	// Deferred mutations registered by goroutines that do not hold the
	// lock. Each list has its own lock, held only to append or swap.
	increfs refList
	decrefs refList

	states stateTable
}

// New returns a Coordinator for rt. rt must not be shared with another
// Coordinator.
func New(rt Runtime) *Coordinator {
	return &Coordinator{rt: rt}
}

// refList is an append-only list of handles awaiting a count mutation.
// The mutex is held only for push and swap, never while a mutation is
// applied: applying a decrement can run destructor code that re-enters
// push on the same goroutine.
type refList struct {
	mu      sync.Mutex
	handles []Handle
}

func (l *refList) push(h Handle) {
	l.mu.Lock()
	l.handles = append(l.handles, h)
	l.mu.Unlock()
}

func (l *refList) swap() []Handle {
	l.mu.Lock()
	out := l.handles
	l.handles = nil
	l.mu.Unlock()
	return out
}

func (l *refList) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.handles)
}

// Prepare initializes the runtime for use from any goroutine. It is
// idempotent and safe to call concurrently; the first caller does the
// work, the rest block until it is done.
//
// If the runtime was initialized elsewhere but its threading was not,
// Prepare panics: nothing this process does later can make the foreign
// main thread initialize threading, so no safe recovery exists.
//
// On first initialization the interpreter is started with signal handling
// disabled (this process is not the interpreter's main thread), a
// finalize hook is registered via onexit, threading is initialized, and
// the lock implicitly held afterwards is released so that outside an
// explicit guard the lock is never held.
func (c *Coordinator) Prepare() {
	c.prepareOnce.Do(func() {
		if c.rt.IsInitialized() {
			if !c.rt.ThreadsInitialized() {
				panic("gil: runtime is initialized but threading is not; " +
					"the initializing thread must call InitThreads")
			}
			logger.Debug("runtime already initialized")
			return
		}

		c.rt.Initialize(false)
		onexit.Register(func() {
			if c.rt.IsInitialized() {
				c.rt.EnsureGIL()
				c.rt.Finalize()
			}
		})
		c.rt.InitThreads()
		// InitThreads leaves the lock held; release it immediately so the
		// held-only-inside-a-guard invariant holds uniformly.
		c.rt.SaveThread()
		logger.Debug("runtime initialized", zap.Bool("signals", false))
	})
}

// Held reports whether the calling goroutine currently holds the lock.
//
// This consults the package's own per-goroutine count rather than the
// runtime's lock-state predicate, for two reasons: it is cheaper, and the
// runtime predicate reports false positives once sub-thread-state APIs
// have ever been used.
func (c *Coordinator) Held() bool {
	s, ok := c.states.currentState()
	return ok && s.gil > 0
}

// RegisterIncref increments h's reference count, immediately when the
// calling goroutine holds the lock, otherwise deferred until the next
// holder drains. Safe to call from any goroutine at any time.
func (c *Coordinator) RegisterIncref(h Handle) {
	if c.Held() {
		c.rt.IncRef(h)
		return
	}
	c.increfs.push(h)
}

// RegisterDecref decrements h's reference count, immediately when the
// calling goroutine holds the lock, otherwise deferred until the next
// holder drains. Safe to call from any goroutine at any time.
func (c *Coordinator) RegisterDecref(h Handle) {
	if c.Held() {
		c.rt.DecRef(h)
		return
	}
	c.decrefs.push(h)
}

// RegisterOwned records h into the calling goroutine's innermost open
// pool, to be released when that pool closes. The lock must be held.
// Without goroutine-local state (e.g. during process teardown) it is a
// no-op: leaking a handle at exit beats failing there.
func (c *Coordinator) RegisterOwned(h Handle) {
	s, ok := c.states.currentState()
	if !ok {
		return
	}
	s.owned = append(s.owned, h)
}

// drain applies every deferred mutation. Caller must hold the lock.
//
// Each list is swapped out under its lock and applied afterwards;
// increments are applied before decrements so a handle with both pending
// never transits through a spurious zero count.
func (c *Coordinator) drain() {
	inc := c.increfs.swap()
	for _, h := range inc {
		c.rt.IncRef(h)
	}
	dec := c.decrefs.swap()
	for _, h := range dec {
		c.rt.DecRef(h)
	}
	if len(inc) > 0 || len(dec) > 0 {
		logger.Debug("drained deferred reference mutations",
			zap.Int("increfs", len(inc)), zap.Int("decrefs", len(dec)))
	}
}

// Py proves that the lock is held on the goroutine it was issued to.
// It must not be stored, nor passed to another goroutine.
type Py struct {
	c   *Coordinator
	gid uint
}

// Coordinator returns the coordinator that issued this token.
func (py Py) Coordinator() *Coordinator {
	return py.c
}

// Do runs f with the runtime's exclusive lock held, initializing the
// runtime first if needed. Safe to call re-entrantly from within f.
//
// The goroutine is pinned to its OS thread for the duration, because the
// runtime tracks lock state per OS thread. If the goroutine did not
// already hold the lock, Do opens a pool so handles created by f are
// released when f returns; a re-entrant Do reuses the enclosing pool, so
// two release scopes never share bookkeeping.
func (c *Coordinator) Do(f func(Py)) {
	c.Prepare()
	gls.EnsureGoroutineId(func(gid uint) {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		state := c.rt.EnsureGIL()
		var pool *Pool
		if !c.heldBy(gid) {
			pool = c.newPool(gid)
		}
		defer func() {
			// Pool handles must be released while the lock is still held.
			if pool != nil {
				pool.Close()
				c.states.release(gid)
			}
			c.rt.ReleaseGIL(state)
		}()

		f(Py{c: c, gid: gid})
	})
}

// Ensure runs f with the lock held, reusing the calling goroutine's
// acquisition when there is one and acquiring otherwise. Useful deep in
// call chains where forcing the caller to acquire is inconvenient.
func (c *Coordinator) Ensure(f func(Py)) {
	if gid, ok := gls.GetGoroutineId(); ok {
		if s, sok := c.states.lookup(gid); sok && s.gil > 0 {
			f(Py{c: c, gid: gid})
			return
		}
	}
	c.Do(f)
}

func (c *Coordinator) heldBy(gid uint) bool {
	s, ok := c.states.lookup(gid)
	return ok && s.gil > 0
}

// AllowThreads releases the lock while f runs, letting other goroutines
// acquire it, and reacquires before returning. Handles cloned or dropped
// inside f go through the deferred queues like on any non-holding
// goroutine. f must not use the Py token or anything derived from it.
func (py Py) AllowThreads(f func()) {
	c := py.c
	s, ok := c.states.lookup(py.gid)
	if !ok {
		f()
		return
	}

	saved := s.gil
	s.gil = 0
	ts := c.rt.SaveThread()
	defer func() {
		c.rt.RestoreThread(ts)
		// A nested guard inside f may have retired this goroutine's
		// state entry; recreate it as needed.
		c.states.get(py.gid).gil = saved
	}()

	f()
}
