package gil

import (
	"sync"

	"github.com/jtolds/gls"
)

// gstate is one goroutine's view of the lock: how many nested guards and
// pools it currently has open, and the handles recorded for release when
// those pools close.
//
// Fields are only ever touched by the owning goroutine; the table mutex
// guards the map, not the entries.
type gstate struct {
	gil   uint32
	owned []Handle
}

// stateTable maps gls goroutine ids to their gstate. Ids are pooled by
// gls and reused once a goroutine leaves its outermost managed scope, so
// entries must be retired promptly (see release).
type stateTable struct {
	mu     sync.Mutex
	states map[uint]*gstate
}

// get returns the goroutine's state, creating it if absent.
func (t *stateTable) get(gid uint) *gstate {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.states == nil {
		t.states = make(map[uint]*gstate)
	}
	s := t.states[gid]
	if s == nil {
		s = &gstate{}
		t.states[gid] = s
	}
	return s
}

// lookup returns the goroutine's state without creating one.
func (t *stateTable) lookup(gid uint) (*gstate, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.states[gid]
	return s, ok
}

// release retires the entry once it holds nothing, so a reused goroutine
// id starts clean.
func (t *stateTable) release(gid uint) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.states[gid]; ok && s.gil == 0 && len(s.owned) == 0 {
		delete(t.states, gid)
	}
}

// splitOwned removes and returns the owned-list suffix from start onward.
// The removal happens here, before any caller releases a handle: a release
// can run destructor code that re-enters this package on the same
// goroutine, and that code must never observe a half-removed list.
func (t *stateTable) splitOwned(gid uint, start int) []Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.states[gid]
	if !ok || start >= len(s.owned) {
		return nil
	}
	tail := make([]Handle, len(s.owned)-start)
	copy(tail, s.owned[start:])
	s.owned = s.owned[:start]
	return tail
}

// currentState resolves the calling goroutine's state. ok is false when
// the goroutine has no gls id (it is outside any managed scope, e.g. an
// exit hook) or no state entry; callers treat that as the degraded
// "thread-local storage unavailable" path and no-op.
func (t *stateTable) currentState() (*gstate, bool) {
	gid, ok := gls.GetGoroutineId()
	if !ok {
		return nil, false
	}
	return t.lookup(gid)
}
