package recording

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOps_NoActiveRecordingIsSilent(t *testing.T) {
	resetDefaults(t)

	assert.False(t, IsEnabled(nil))

	_, ok := ApplicationID(nil)
	assert.False(t, ok)
	_, ok = RecordingID(nil)
	assert.False(t, ok)

	// Logging without any recording is a no-op, not an error.
	assert.NoError(t, Log(nil, "world/points", []byte("p")))
	Flush(nil, true)
}

func TestOps_ResolveThroughSlots(t *testing.T) {
	resetDefaults(t)
	global, globalSink := newTestStream(t, "global_app")
	local, localSink := newTestStream(t, "local_app")

	SetGlobal(global)
	defer SetGlobal(nil)

	require.NoError(t, Log(nil, "g", []byte("1")))

	SetThreadLocal(local)
	defer SetThreadLocal(nil)
	require.NoError(t, Log(nil, "l", []byte("2")))

	Flush(nil, true)          // drains the thread-local recording
	Flush(global, true)       // and the global one explicitly

	require.Len(t, globalSink.Rows(), 1)
	assert.Equal(t, "g", globalSink.Rows()[0].EntityPath)
	require.Len(t, localSink.Rows(), 1)
	assert.Equal(t, "l", localSink.Rows()[0].EntityPath)

	app, ok := ApplicationID(nil)
	require.True(t, ok)
	assert.Equal(t, "local_app", app)
}

func TestOps_ExplicitNullSuppressesDespiteActiveState(t *testing.T) {
	resetDefaults(t)
	global, globalSink := newTestStream(t, "global_app")

	SetGlobal(global)
	defer SetGlobal(nil)

	// Explicit override wins even over more specific state.
	null := Null()
	assert.False(t, IsEnabled(null))
	assert.NoError(t, Log(null, "suppressed", []byte("x")))

	Flush(global, true)
	assert.Empty(t, globalSink.Rows())

	// The ambient path still works.
	assert.True(t, IsEnabled(nil))
}

func TestOps_DisabledRecordingIsSilent(t *testing.T) {
	resetDefaults(t)
	rec, sink := newTestStream(t, "app", WithDefaultEnabled(false))

	assert.False(t, rec.IsEnabled())
	assert.NoError(t, rec.Log("dropped", []byte("x")))
	rec.Flush(true)
	assert.Empty(t, sink.Rows())
}

func TestOps_EnvToggleWinsOverCreationDefault(t *testing.T) {
	resetDefaults(t)

	t.Setenv("SKALD", "off")
	rec, _ := newTestStream(t, "app", WithDefaultEnabled(true))
	assert.False(t, rec.IsEnabled())

	t.Setenv("SKALD", "on")
	recOff, _ := newTestStream(t, "app", WithDefaultEnabled(false))
	assert.True(t, recOff.IsEnabled())
}

func TestOps_NilReceiverMethodsUseActiveRecording(t *testing.T) {
	resetDefaults(t)
	global, sink := newTestStream(t, "global_app")

	SetGlobal(global)
	defer SetGlobal(nil)

	var ambient *Stream
	assert.True(t, ambient.IsEnabled())

	app, ok := ambient.ApplicationID()
	require.True(t, ok)
	assert.Equal(t, "global_app", app)

	require.NoError(t, ambient.Log("via/nil", []byte("x")))
	ambient.Flush(true)
	require.Len(t, sink.Rows(), 1)
}
