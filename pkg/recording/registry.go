package recording

import (
	"sync/atomic"

	"github.com/timandy/routine"
)

// Registry holds the process-wide global recording slot and one
// goroutine-local recording slot per goroutine. Absence is represented by
// nil and is never an error.
//
// The global slot is replaced wholesale with a single atomic swap; the
// goroutine-local slot is owned by its goroutine and is never read or
// written by another one, so neither slot needs a lock.
type Registry struct {
	global atomic.Pointer[Stream]
	local  routine.ThreadLocal[*Stream]
}

// NewRegistry creates an empty registry. Most callers use the package-level
// functions, which operate on a shared default registry; constructing one
// explicitly keeps resolution logic testable in isolation.
func NewRegistry() *Registry {
	return &Registry{
		local: routine.NewThreadLocal[*Stream](),
	}
}

// SetGlobal replaces the global recording and returns the previous one, or
// nil. Passing nil clears the slot.
func (r *Registry) SetGlobal(s *Stream) *Stream {
	return r.global.Swap(s)
}

// Global returns the current global recording, or nil.
func (r *Registry) Global() *Stream {
	return r.global.Load()
}

// SetThreadLocal replaces the calling goroutine's recording and returns the
// previous one for this goroutine, or nil. Other goroutines are unaffected.
// Passing nil clears the slot.
func (r *Registry) SetThreadLocal(s *Stream) *Stream {
	prev := r.local.Get()
	if s == nil {
		r.local.Remove()
	} else {
		r.local.Set(s)
	}
	return prev
}

// ThreadLocal returns the calling goroutine's recording, or nil.
func (r *Registry) ThreadLocal() *Stream {
	return r.local.Get()
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry backing the package-level API.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// SetGlobal replaces the process's global recording and returns the previous
// one, or nil.
func SetGlobal(s *Stream) *Stream {
	return defaultRegistry.SetGlobal(s)
}

// Global returns the process's global recording, or nil.
func Global() *Stream {
	return defaultRegistry.Global()
}

// SetThreadLocal replaces the calling goroutine's recording and returns the
// previous one, or nil.
func SetThreadLocal(s *Stream) *Stream {
	return defaultRegistry.SetThreadLocal(s)
}

// ThreadLocal returns the calling goroutine's recording, or nil.
func ThreadLocal() *Stream {
	return defaultRegistry.ThreadLocal()
}
