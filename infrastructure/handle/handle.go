//go:build windows

// Package handle implements the acquire-on-demand, release-on-drop OS
// handle lifecycle described in §4.1 of the core spec.
package handle

import (
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sys/windows"

	"wincore/application"
	"wincore/infrastructure/winapi"
)

// closeFunc is the shape of the one kernel entry point a Handle needs to
// release itself. It is captured as a direct reference at construction
// time (never looked up by name again), so that a finalizer running during
// interpreter/runtime shutdown can still call it — the redesign note in
// §9 ("shutdown-safe destructors").
type closeFunc func(windows.Handle) error

// Handle owns exactly one OS handle value and closes it exactly once,
// unless it is a pseudo-handle (current-process/current-thread), which it
// never closes.
type Handle struct {
	value   windows.Handle
	pseudo  bool
	close   closeFunc
	closed  atomic.Bool
	logger  application.Logger
}

// New wraps a real, closable handle value.
func New(value windows.Handle, logger application.Logger) *Handle {
	return newHandle(value, false, logger)
}

// NewPseudo wraps a pseudo-handle (GetCurrentProcess/GetCurrentThread).
// Close is a permanent no-op.
func NewPseudo(value windows.Handle) *Handle {
	h := newHandle(value, true, nil)
	h.closed.Store(true)
	return h
}

func newHandle(value windows.Handle, pseudo bool, logger application.Logger) *Handle {
	h := &Handle{
		value:  value,
		pseudo: pseudo,
		close:  winapi.CloseHandle,
		logger: logger,
	}
	if !pseudo {
		runtime.SetFinalizer(h, (*Handle).finalize)
	}
	return h
}

// Value returns the raw handle value.
func (h *Handle) Value() uintptr {
	return uintptr(h.value)
}

// Wait blocks the calling thread up to timeout and returns the OS wait
// code. A negative timeout waits forever (INFINITE); a zero timeout polls
// without blocking.
func (h *Handle) Wait(timeout time.Duration) (uint32, error) {
	millis := uint32(timeout.Milliseconds())
	if timeout < 0 {
		millis = 0xFFFFFFFF // INFINITE
	}
	return winapi.Wait(h.value, millis)
}

// Close releases the handle. Idempotent; a no-op for pseudo-handles and
// for a handle that is already closed.
func (h *Handle) Close() error {
	if h.pseudo {
		return nil
	}
	if !h.closed.CompareAndSwap(false, true) {
		return nil
	}
	runtime.SetFinalizer(h, nil)
	if h.value == 0 {
		return nil
	}
	return h.close(h.value)
}

// finalize runs if the owner was garbage-collected without an explicit
// Close. Failures here are swallowed (§7: "shutdown-time handle closing
// swallows failures — a failed close during teardown must not crash the
// host"), logged if a logger was supplied at construction.
func (h *Handle) finalize() {
	if err := h.Close(); err != nil && h.logger != nil {
		h.logger.Printf("handle finalizer: close failed: %v", err)
	}
}
