package recording

// Scope is a lexical override of the calling goroutine's recording. It
// captures the previous value on entry and restores it on exit — the restore
// is unconditional, so it holds even when the scoped body replaced the
// goroutine-local recording itself, and nested scopes compose by stacking.
//
// A scope belongs to the goroutine that entered it and is not reusable
// after Exit.
type Scope struct {
	reg  *Registry
	prev *Stream
	done bool
}

// NewScope installs s as the goroutine-local recording of reg (nil means the
// default registry) and returns the scope that undoes it. Callers pair it
// with a deferred Exit so the restore also runs during panic unwinding:
//
//	scope := recording.NewScope(nil, rec)
//	defer scope.Exit()
func NewScope(reg *Registry, s *Stream) *Scope {
	if reg == nil {
		reg = defaultRegistry
	}
	prev := reg.SetThreadLocal(s)
	return &Scope{reg: reg, prev: prev}
}

// Activate installs the stream as the calling goroutine's recording on the
// default registry and returns the scope that restores the previous one.
func (s *Stream) Activate() *Scope {
	return NewScope(defaultRegistry, s)
}

// Exit restores the recording captured at entry. Exiting twice is a no-op.
func (sc *Scope) Exit() {
	if sc == nil || sc.done {
		return
	}
	sc.done = true
	sc.reg.SetThreadLocal(sc.prev)
}
