// Package recording exposes recording streams over the native logging core:
// stream lifecycle, active-recording resolution, lexical scoping, and
// per-task isolation.
//
// A process holds at most one global recording and, per goroutine, at most
// one goroutine-local recording. Every operation that takes an optional
// *Stream resolves the effective recording the same way: an explicitly
// supplied stream wins (even an empty one created with Null, which callers
// pass to deliberately suppress logging), then the calling goroutine's
// recording, then the global recording, then nothing — and operations given
// nothing are silent no-ops, never errors. The precedence is re-evaluated on
// every call.
//
// Scopes give lexical, panic-safe overrides of the goroutine-local slot:
//
//	scope := rec.Activate()
//	defer scope.Exit()
//
// Isolated, Wrap, IsolateSeq, and IsolateProducer run a unit of work under a
// freshly created recording, including across the suspension points of a
// value producer.
//
// The SKALD environment variable (on/off) force-toggles every recording in
// the process; SKALD_FLUSH_TICK_SECS, SKALD_FLUSH_NUM_BYTES, and
// SKALD_FLUSH_NUM_ROWS tune the flush cadence of the core's micro-batcher.
package recording
