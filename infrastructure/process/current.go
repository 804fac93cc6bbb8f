//go:build windows

package process

import (
	"os"
	"unsafe"

	"wincore/application"
	"wincore/domain/bitness"
	"wincore/infrastructure/handle"
	"wincore/infrastructure/winapi"
)

// CurrentProcess returns a Process for the calling process, backed by the
// GetCurrentProcess() pseudo-handle (never closed, per §4.1) and reading
// its PEB via nativeexec's in-process stub rather than a syscall.
func CurrentProcess(opts application.Options, logger application.Logger) *Process {
	p := &Process{
		pid:        uint32(os.Getpid()),
		opts:       opts,
		logger:     logger,
		nativeStub: true,
	}
	p.h = handle.NewPseudo(winapi.CurrentProcessPseudoHandle())
	w := bitness.Width(8 * unsafe.Sizeof(uintptr(0)))
	p.widthCached = &w
	return p
}
