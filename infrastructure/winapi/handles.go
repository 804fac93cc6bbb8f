//go:build windows

package winapi

import (
	"golang.org/x/sys/windows"

	"wincore/domain/winconst"
)

// OpenProcess opens a handle to pid with full access.
func OpenProcess(pid uint32) (windows.Handle, error) {
	h, err := windows.OpenProcess(winconst.ProcessFullAccess, false, pid)
	if err != nil {
		return 0, osError("OpenProcess", err)
	}
	return h, nil
}

// OpenThread opens a handle to tid with full access.
func OpenThread(tid uint32) (windows.Handle, error) {
	h, err := windows.OpenThread(winconst.ThreadFullAccess, false, tid)
	if err != nil {
		return 0, osError("OpenThread", err)
	}
	return h, nil
}

// CurrentProcessPseudoHandle returns GetCurrentProcess()'s pseudo-handle.
// Must never be passed to CloseHandle.
func CurrentProcessPseudoHandle() windows.Handle {
	return windows.CurrentProcess()
}

// CurrentThreadPseudoHandle returns GetCurrentThread()'s pseudo-handle.
// Must never be passed to CloseHandle.
func CurrentThreadPseudoHandle() windows.Handle {
	return windows.CurrentThread()
}

// CloseHandle closes a real (non-pseudo) handle.
func CloseHandle(h windows.Handle) error {
	if err := windows.CloseHandle(h); err != nil {
		return osError("CloseHandle", err)
	}
	return nil
}

// Wait blocks up to timeoutMillis (winconst.Infinite for forever) and
// returns the raw wait code.
func Wait(h windows.Handle, timeoutMillis uint32) (uint32, error) {
	code, err := windows.WaitForSingleObject(h, timeoutMillis)
	if err != nil {
		return 0, osError("WaitForSingleObject", err)
	}
	return code, nil
}

// GetProcessId returns the pid a handle refers to.
func GetProcessId(h windows.Handle) (uint32, error) {
	pid, err := windows.GetProcessId(h)
	if err != nil {
		return 0, osError("GetProcessId", err)
	}
	return pid, nil
}

// GetThreadId returns the tid a handle refers to.
func GetThreadId(h windows.Handle) uint32 {
	return windows.GetThreadId(h)
}

// GetExitCodeProcess reports a process's exit code, or winconst.StillActive
// while it is running.
func GetExitCodeProcess(h windows.Handle) (uint32, error) {
	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		return 0, osError("GetExitCodeProcess", err)
	}
	return code, nil
}

// GetExitCodeThread reports a thread's exit code, or winconst.StillActive
// while it is running.
func GetExitCodeThread(h windows.Handle) (uint32, error) {
	var code uint32
	if err := windows.GetExitCodeThread(h, &code); err != nil {
		return 0, osError("GetExitCodeThread", err)
	}
	return code, nil
}

// TerminateProcess terminates a process with the given exit code.
func TerminateProcess(h windows.Handle, exitCode uint32) error {
	if err := windows.TerminateProcess(h, exitCode); err != nil {
		return osError("TerminateProcess", err)
	}
	return nil
}

// TerminateThread terminates a thread with the given exit code.
func TerminateThread(h windows.Handle, exitCode uint32) error {
	if err := windows.TerminateThread(h, exitCode); err != nil {
		return osError("TerminateThread", err)
	}
	return nil
}

// SuspendThread increments a thread's suspend count, returning the
// previous count.
func SuspendThread(h windows.Handle) (uint32, error) {
	prev, err := windows.SuspendThread(h)
	if err != nil {
		return 0, osError("SuspendThread", err)
	}
	return prev, nil
}

// ResumeThread decrements a thread's suspend count, returning the previous
// count.
func ResumeThread(h windows.Handle) (uint32, error) {
	prev, err := windows.ResumeThread(h)
	if err != nil {
		return 0, osError("ResumeThread", err)
	}
	return prev, nil
}

// IsWow64 reports whether a process handle refers to a WoW64 process.
func IsWow64(h windows.Handle) (bool, error) {
	var wow64 bool
	if err := windows.IsWow64Process(h, &wow64); err != nil {
		return false, osError("IsWow64Process", err)
	}
	return wow64, nil
}
