//go:build !ios && !android && (amd64 || arm64)

package pygo

import (
	"github.com/obinnaokechukwu/pygo/cpython"
	"github.com/obinnaokechukwu/pygo/gil"
)

// Object wraps a reference to a Python object.
//
// A pool-owned Object (as returned by Eval) is released automatically when
// the With scope that produced it ends. An independent Object (as returned
// by Clone or NewObject) must be released with Release.
//
// Clone and Release are safe to call from any goroutine at any time: when
// the goroutine does not hold the GIL, the count mutation is deferred and
// applied by the next lock holder.
type Object struct {
	ptr    cpython.Object
	pooled bool
}

// NewObject wraps an owned reference obtained from the cpython package.
// The caller is responsible for releasing it.
func NewObject(ptr cpython.Object) *Object {
	if ptr == 0 {
		return nil
	}
	return &Object{ptr: ptr}
}

// Ptr returns the underlying raw object pointer.
func (o *Object) Ptr() cpython.Object {
	if o == nil {
		return 0
	}
	return o.ptr
}

// Clone returns a new independent reference to the same object.
func (o *Object) Clone() *Object {
	if o == nil || o.ptr == 0 {
		return nil
	}
	coordinator.RegisterIncref(o.ptr)
	return &Object{ptr: o.ptr}
}

// Release drops this reference. After Release the Object must not be
// used. No-op for pool-owned objects, whose reference belongs to the
// enclosing pool.
func (o *Object) Release() {
	if o == nil || o.ptr == 0 {
		return
	}
	if o.pooled {
		o.ptr = 0
		return
	}
	coordinator.RegisterDecref(o.ptr)
	o.ptr = 0
}

// Refcnt returns the object's current reference count. Note that deferred
// clones and drops from non-holding goroutines are not reflected until
// the next lock holder drains them.
func (o *Object) Refcnt() int64 {
	if o == nil {
		return 0
	}
	return cpython.RefCount(o.ptr)
}

// Str returns str(obj), or "" if conversion fails. The py token proves
// the lock is held.
func (o *Object) Str(py gil.Py) string {
	if o == nil || o.ptr == 0 {
		return ""
	}
	s := cpython.ObjectStr(o.ptr)
	if s == 0 {
		cpython.ErrClear()
		return ""
	}
	out := cpython.UnicodeAsUTF8(s)
	cpython.DecRef(s)
	return out
}
