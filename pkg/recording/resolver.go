package recording

import "context"

// Resolver computes the effective recording for an operation. Resolution is
// a pure read with no side effects and is re-evaluated on every call; the
// slots it reads stay mutable for the life of the process.
type Resolver struct {
	reg *Registry
}

// NewResolver creates a resolver over the given registry. A nil registry
// means the default one.
func NewResolver(reg *Registry) *Resolver {
	if reg == nil {
		reg = defaultRegistry
	}
	return &Resolver{reg: reg}
}

// Resolve returns the effective recording: the explicit argument when
// supplied (verbatim, even a Null stream), else the calling goroutine's
// recording, else the global recording, else nil.
func (r *Resolver) Resolve(explicit *Stream) *Stream {
	if explicit != nil {
		return explicit
	}
	if s := r.reg.ThreadLocal(); s != nil {
		return s
	}
	return r.reg.Global()
}

// ResolveContext is Resolve with one extra step: a recording carried by the
// context (see WithContext) is consulted after the explicit argument and
// before the goroutine-local slot.
func (r *Resolver) ResolveContext(ctx context.Context, explicit *Stream) *Stream {
	if explicit != nil {
		return explicit
	}
	if ctx != nil {
		if s := FromContext(ctx); s != nil {
			return s
		}
	}
	if s := r.reg.ThreadLocal(); s != nil {
		return s
	}
	return r.reg.Global()
}

var defaultResolver = NewResolver(nil)

// Resolve returns the effective recording for an operation given an optional
// explicit stream, using the default registry.
func Resolve(explicit *Stream) *Stream {
	return defaultResolver.Resolve(explicit)
}

// Active returns the recording that operations would use right now when no
// explicit stream is supplied, or nil.
func Active() *Stream {
	return defaultResolver.Resolve(nil)
}

type ctxKey struct{}

// WithContext returns a context carrying the stream, for code that already
// threads contexts across goroutines.
func WithContext(ctx context.Context, s *Stream) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the stream carried by the context, or nil.
func FromContext(ctx context.Context) *Stream {
	s, _ := ctx.Value(ctxKey{}).(*Stream)
	return s
}
