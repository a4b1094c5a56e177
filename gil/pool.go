package gil

// Pool is a scoped ownership batch. Handles recorded while it is the
// goroutine's innermost open pool are released, in recording order, when
// it closes. Pools on one goroutine nest in strict stack order: always
// pair NewPool with a deferred Close in the same function.
type Pool struct {
	c      *Coordinator
	gid    uint
	start  int
	closed bool
}

// newPool opens a batch for gid. Caller must hold the lock.
func (c *Coordinator) newPool(gid uint) *Pool {
	s := c.states.get(gid)
	s.gil++
	// Apply mutations queued by non-holding goroutines before any code
	// runs under this pool.
	c.drain()
	return &Pool{c: c, gid: gid, start: len(s.owned)}
}

// NewPool opens a nested ownership batch on the calling goroutine.
// The lock must be held (py is the proof). Destructor code that runs
// while the lock is held and creates handles of its own should open a
// pool around them, or they stay recorded until an enclosing pool closes.
func (py Py) NewPool() *Pool {
	return py.c.newPool(py.gid)
}

// Close releases every handle recorded since the pool opened and retires
// the pool's lock acquisition count. Safe to call once; later calls are
// no-ops.
//
// Releasing a handle can run destructor code that re-enters this package
// and records further handles; Close keeps splitting the recorded suffix
// off first and releasing second until nothing new appears, so the list
// is always consistent when destructors observe it.
func (p *Pool) Close() {
	if p == nil || p.closed {
		return
	}
	p.closed = true

	for {
		tail := p.c.states.splitOwned(p.gid, p.start)
		if len(tail) == 0 {
			break
		}
		for _, h := range tail {
			p.c.rt.DecRef(h)
		}
	}

	p.c.decrementGIL(p.gid)
}

// decrementGIL retires one acquisition from gid's count. A zero count
// here is a bug in this package (a double Close); it panics under the
// race detector and is tolerated otherwise rather than corrupting state.
func (c *Coordinator) decrementGIL(gid uint) {
	s, ok := c.states.lookup(gid)
	if !ok {
		return
	}
	if s.gil == 0 {
		if checkedBuild {
			panic("gil: lock count underflow; a pool or guard was closed twice")
		}
		return
	}
	s.gil--
}
