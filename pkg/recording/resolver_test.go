package recording

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver_Precedence(t *testing.T) {
	resetDefaults(t)
	reg := NewRegistry()
	res := NewResolver(reg)

	explicit, _ := newTestStream(t, "explicit")
	local, _ := newTestStream(t, "local")
	global, _ := newTestStream(t, "global")

	// Nothing set, nothing supplied.
	assert.Nil(t, res.Resolve(nil))

	// Global only.
	reg.SetGlobal(global)
	assert.Same(t, global, res.Resolve(nil))

	// Thread-local shadows global.
	reg.SetThreadLocal(local)
	assert.Same(t, local, res.Resolve(nil))

	// Explicit shadows both.
	assert.Same(t, explicit, res.Resolve(explicit))

	// An explicit empty stream is returned verbatim: callers pass it to
	// deliberately suppress logging.
	null := Null()
	assert.Same(t, null, res.Resolve(null))

	// Precedence is re-evaluated on every call, never cached.
	reg.SetThreadLocal(nil)
	assert.Same(t, global, res.Resolve(nil))
	reg.SetGlobal(nil)
	assert.Nil(t, res.Resolve(nil))
}

func TestResolver_InterleavedMutations(t *testing.T) {
	resetDefaults(t)
	reg := NewRegistry()
	res := NewResolver(reg)

	a, _ := newTestStream(t, "app_a")
	b, _ := newTestStream(t, "app_b")

	reg.SetGlobal(a)
	assert.Same(t, a, res.Resolve(nil))

	reg.SetThreadLocal(b)
	assert.Same(t, b, res.Resolve(nil))

	reg.SetGlobal(b)
	reg.SetThreadLocal(a)
	assert.Same(t, a, res.Resolve(nil), "most recently set thread-local wins")

	reg.SetThreadLocal(nil)
	assert.Same(t, b, res.Resolve(nil), "falls back to most recently set global")
}

func TestResolver_ContextStep(t *testing.T) {
	resetDefaults(t)
	reg := NewRegistry()
	res := NewResolver(reg)

	ctxRec, _ := newTestStream(t, "ctx")
	local, _ := newTestStream(t, "local")
	explicit, _ := newTestStream(t, "explicit")

	ctx := WithContext(context.Background(), ctxRec)

	// Context beats the slots...
	reg.SetThreadLocal(local)
	assert.Same(t, ctxRec, res.ResolveContext(ctx, nil))

	// ...but not an explicit argument.
	assert.Same(t, explicit, res.ResolveContext(ctx, explicit))

	// Without a carried recording the chain is unchanged.
	assert.Same(t, local, res.ResolveContext(context.Background(), nil))
	assert.Same(t, local, res.ResolveContext(nil, nil))
}

func TestFromContext(t *testing.T) {
	resetDefaults(t)
	rec, _ := newTestStream(t, "ctx")

	assert.Nil(t, FromContext(context.Background()))
	ctx := WithContext(context.Background(), rec)
	assert.Same(t, rec, FromContext(ctx))
}

func TestActive_UsesDefaultRegistry(t *testing.T) {
	resetDefaults(t)
	rec, _ := newTestStream(t, "app")

	assert.Nil(t, Active())

	SetGlobal(rec)
	assert.Same(t, rec, Active())
	assert.Same(t, rec, Resolve(nil))

	SetGlobal(nil)
	assert.Nil(t, Active())
}
