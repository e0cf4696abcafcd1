package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHotReloaderDetectsNewerBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o755))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	h := &HotReloader{execPath: path, startupTime: old, checkInterval: 10 * time.Millisecond}
	assert.False(t, h.Changed())

	now := time.Now()
	require.NoError(t, os.Chtimes(path, now, now))
	assert.True(t, h.Changed())

	h.ResetBaseline()
	assert.False(t, h.Changed())
}

func TestHotReloaderCallbacks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o755))
	old := time.Now().Add(-time.Hour)

	h := &HotReloader{execPath: path, startupTime: old, checkInterval: 5 * time.Millisecond}
	fired := make(chan struct{})
	ticks := make(chan struct{}, 16)
	h.OnTick(func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	h.OnNewBinary(func() { close(fired) })
	h.Start()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("new binary not reported")
	}
	assert.NotEmpty(t, ticks)
}

func TestHotReloaderWaitsForStableBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o755))
	old := time.Now().Add(-time.Hour)
	h := &HotReloader{execPath: path, startupTime: old, checkInterval: time.Hour}

	assert.False(t, h.settled(), "first sighting only records the new binary")
	require.NoError(t, os.WriteFile(path, []byte("v2 still linking"), 0o755))
	assert.False(t, h.settled(), "size changed since the last poll")
	assert.True(t, h.settled())

	h.ResetBaseline()
	assert.False(t, h.settled())
}

func TestHotReloaderStartStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o755))
	h := &HotReloader{execPath: path, startupTime: time.Now().Add(time.Hour), checkInterval: time.Millisecond}

	h.Start()
	h.Start()
	h.Stop()
	h.Stop()
	assert.Nil(t, h.stopCh)
}
