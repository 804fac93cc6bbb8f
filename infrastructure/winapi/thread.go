//go:build windows

package winapi

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// GetThreadContext reads a same-bitness thread's CONTEXT, with
// ContextFlags already set to CONTEXT_ALL by the caller.
func GetThreadContext(h windows.Handle, ctx *windows.Context) error {
	if err := windows.GetThreadContext(h, ctx); err != nil {
		return osError("GetThreadContext", err)
	}
	return nil
}

// SetThreadContext writes a same-bitness thread's CONTEXT.
func SetThreadContext(h windows.Handle, ctx *windows.Context) error {
	if err := windows.SetThreadContext(h, ctx); err != nil {
		return osError("SetThreadContext", err)
	}
	return nil
}

// CreateRemoteThread creates a thread in a same-bitness remote process.
func CreateRemoteThread(process windows.Handle, startAddr, param uintptr) (windows.Handle, uint32, error) {
	h, tid, err := windows.CreateRemoteThread(process, nil, 0, startAddr, param, 0)
	if err != nil {
		return 0, 0, osError("CreateRemoteThread", err)
	}
	return h, tid, nil
}

// CreateThreadInCurrentProcess creates a thread in the calling process.
func CreateThreadInCurrentProcess(startAddr, param uintptr) (windows.Handle, uint32, error) {
	h, tid, err := windows.CreateRemoteThread(windows.CurrentProcess(), nil, 0, startAddr, param, 0)
	if err != nil {
		return 0, 0, osError("CreateThread", err)
	}
	return h, tid, nil
}

// ThreadStartAddress queries Win32StartAddress for a same-bitness thread.
func ThreadStartAddress(h windows.Handle, infoClass uint32) (uint64, error) {
	var addr uint64
	_, err := NtQueryInformationThread(h, infoClass, (*[8]byte)(unsafe.Pointer(&addr))[:])
	if err != nil {
		return 0, err
	}
	return addr, nil
}
