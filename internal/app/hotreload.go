package app

import (
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"
)

// HotReloader watches the viewer binary and offers a restart when a rebuilt
// one replaces it. Annotations live only in memory, so the window saves
// preferences from OnTick and asks before restarting.
type HotReloader struct {
	execPath      string
	checkInterval time.Duration

	mu          sync.Mutex
	startupTime time.Time     // baseline mod time
	pending     os.FileInfo   // newer binary seen on the previous poll
	stopCh      chan struct{} // nil while not running

	onNewBinary func() // Called once the newer binary has settled
	onTick      func() // Called on every poll
}

// NewHotReloader creates a reloader for the current executable.
// Returns nil if the executable path cannot be determined.
func NewHotReloader(checkInterval time.Duration) *HotReloader {
	execPath, err := os.Executable()
	if err != nil {
		return nil
	}

	// go build replaces the file, so follow symlinks to the file itself
	if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = resolved
	}

	info, err := os.Stat(execPath)
	if err != nil {
		return nil
	}

	return &HotReloader{
		execPath:      execPath,
		startupTime:   info.ModTime(),
		checkInterval: checkInterval,
	}
}

// OnNewBinary sets the callback to invoke when a newer binary is detected.
// The callback runs on the watcher goroutine.
func (h *HotReloader) OnNewBinary(callback func()) {
	h.onNewBinary = callback
}

// OnTick sets a callback run on every poll, used for periodic autosave.
func (h *HotReloader) OnTick(callback func()) {
	h.onTick = callback
}

// Start begins watching in a background goroutine. Starting a running
// reloader does nothing.
func (h *HotReloader) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopCh != nil {
		return
	}
	h.stopCh = make(chan struct{})
	h.pending = nil
	go h.watchLoop(h.stopCh)
}

// Stop stops the watcher goroutine. It is safe to call more than once.
func (h *HotReloader) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopCh != nil {
		close(h.stopCh)
		h.stopCh = nil
	}
}

func (h *HotReloader) watchLoop(stop chan struct{}) {
	ticker := time.NewTicker(h.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if h.onTick != nil {
				h.onTick()
			}
			if h.settled() {
				h.mu.Lock()
				if h.stopCh == stop {
					h.stopCh = nil
				}
				h.mu.Unlock()
				// Only trigger once; the callback restarts the watch if declined
				if h.onNewBinary != nil {
					h.onNewBinary()
				}
				return
			}
		}
	}
}

// settled reports a newer binary whose size and mod time did not change
// since the previous poll, so a build still being written is not exec'd.
func (h *HotReloader) settled() bool {
	info, err := os.Stat(h.execPath)
	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil || !info.ModTime().After(h.startupTime) {
		h.pending = nil
		return false
	}
	prev := h.pending
	h.pending = info
	return prev != nil && prev.Size() == info.Size() && prev.ModTime().Equal(info.ModTime())
}

// Changed reports whether the binary is newer than the baseline.
func (h *HotReloader) Changed() bool {
	info, err := os.Stat(h.execPath)
	if err != nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return info.ModTime().After(h.startupTime)
}

// ExecPath returns the path to the current executable.
func (h *HotReloader) ExecPath() string {
	return h.execPath
}

// StartupTime returns the baseline modification time.
func (h *HotReloader) StartupTime() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.startupTime
}

// ResetBaseline accepts the current binary as the baseline.
// Call this when the user declines a restart to avoid repeated prompts.
func (h *HotReloader) ResetBaseline() {
	info, err := os.Stat(h.execPath)
	if err != nil {
		return
	}
	h.mu.Lock()
	h.startupTime = info.ModTime()
	h.pending = nil
	h.mu.Unlock()
}

// Restart replaces the current process with the new binary, preserving
// command line arguments and environment. It does not return on success.
func (h *HotReloader) Restart() error {
	// syscall.Exec replaces the process image, no fork
	return syscall.Exec(h.execPath, os.Args, os.Environ())
}
