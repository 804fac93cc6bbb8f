//go:build windows

// Package thread is the Thread/CurrentThread object model (§4.1, §4.5):
// per-thread handle lifecycle, CONTEXT read/write, and start address
// resolution. There is no separate dead-thread type: operations on a
// thread that has exited report whatever error the underlying call returns.
package thread

import (
	"time"

	"golang.org/x/sys/windows"

	"wincore/application"
	"wincore/domain/werrors"
	"wincore/domain/winconst"
	"wincore/infrastructure/handle"
	"wincore/infrastructure/winapi"
)

// Thread is a live handle to a running thread, identified by tid. Like
// Process, every property is resolved lazily.
type Thread struct {
	tid    uint32
	logger application.Logger

	h *handle.Handle

	// pseudo marks CurrentThread: Wait must refuse rather than call the
	// kernel, since a thread can never wait on itself (§8 property 7).
	pseudo bool
}

// New constructs a Thread for tid. No handle is opened until first use.
func New(tid uint32, logger application.Logger) *Thread {
	return &Thread{tid: tid, logger: logger}
}

// Tid returns the thread identifier this Thread was constructed for.
func (t *Thread) Tid() uint32 { return t.tid }

// Handle returns this thread's OS handle, opening it on first call, as the
// application.Handle port rather than the concrete handle package type.
func (t *Thread) Handle() (application.Handle, error) {
	if t.h != nil {
		return t.h, nil
	}
	v, err := winapi.OpenThread(t.tid)
	if err != nil {
		return nil, err
	}
	t.h = handle.New(v, t.logger)
	return t.h, nil
}

func (t *Thread) winHandle() (windows.Handle, error) {
	h, err := t.Handle()
	if err != nil {
		return 0, err
	}
	return windows.Handle(h.Value()), nil
}

// Context reads this thread's full CONTEXT. Only same-bitness contexts are
// supported here; a heaven's-gate 64-bit context read goes through
// winapi.NtWow64GetThreadContext64 directly, since its buffer shape
// (CONTEXT64) differs from windows.Context.
func (t *Thread) Context() (*windows.Context, error) {
	wh, err := t.winHandle()
	if err != nil {
		return nil, err
	}
	var ctx windows.Context
	ctx.ContextFlags = windows.CONTEXT_ALL
	if err := winapi.GetThreadContext(wh, &ctx); err != nil {
		return nil, err
	}
	return &ctx, nil
}

// SetContext writes ctx back to this thread.
func (t *Thread) SetContext(ctx *windows.Context) error {
	wh, err := t.winHandle()
	if err != nil {
		return err
	}
	return winapi.SetThreadContext(wh, ctx)
}

// StartAddress resolves the thread's Win32 start address.
func (t *Thread) StartAddress() (uint64, error) {
	wh, err := t.winHandle()
	if err != nil {
		return 0, err
	}
	return winapi.ThreadStartAddress(wh, winconst.ThreadQuerySetWin32StartAddress)
}

// Suspend increments the thread's suspend count, returning the previous
// count.
func (t *Thread) Suspend() (uint32, error) {
	wh, err := t.winHandle()
	if err != nil {
		return 0, err
	}
	return winapi.SuspendThread(wh)
}

// Resume decrements the thread's suspend count, returning the previous
// count.
func (t *Thread) Resume() (uint32, error) {
	wh, err := t.winHandle()
	if err != nil {
		return 0, err
	}
	return winapi.ResumeThread(wh)
}

// Exit terminates the thread with the given exit code.
func (t *Thread) Exit(code uint32) error {
	wh, err := t.winHandle()
	if err != nil {
		return err
	}
	return winapi.TerminateThread(wh, code)
}

// ExitCode reports the thread's exit code, or winconst.StillActive while
// it is still running.
func (t *Thread) ExitCode() (uint32, error) {
	wh, err := t.winHandle()
	if err != nil {
		return 0, err
	}
	return winapi.GetExitCodeThread(wh)
}

// Wait blocks up to timeout for the thread to terminate. CurrentThread
// refuses instead, since a thread waiting on itself would deadlock
// forever (§8 property 7): it never reaches the kernel call at all.
func (t *Thread) Wait(timeout time.Duration) (uint32, error) {
	if t.pseudo {
		return 0, werrors.NewWouldDeadlock("Thread.Wait")
	}
	h, err := t.Handle()
	if err != nil {
		return 0, err
	}
	return h.Wait(timeout)
}
