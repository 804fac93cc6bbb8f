//go:build windows

package thread

import (
	"wincore/application"
	"wincore/infrastructure/handle"
	"wincore/infrastructure/winapi"
)

// CurrentThread returns a Thread for the calling goroutine's OS thread,
// backed by the GetCurrentThread() pseudo-handle. Wait always fails with
// werrors.WouldDeadlock rather than calling the kernel.
func CurrentThread(logger application.Logger) *Thread {
	t := &Thread{
		tid:    winapi.GetThreadId(winapi.CurrentThreadPseudoHandle()),
		logger: logger,
		pseudo: true,
	}
	t.h = handle.NewPseudo(winapi.CurrentThreadPseudoHandle())
	return t
}
