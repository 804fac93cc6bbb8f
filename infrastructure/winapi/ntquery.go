//go:build windows

package winapi

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// ProcessBasicInformation32 mirrors PROCESS_BASIC_INFORMATION as laid out
// on a 32-bit target: every field is a 32-bit-wide value.
type ProcessBasicInformation32 struct {
	ExitStatus                   uint32
	PebBaseAddress               uint32
	AffinityMask                 uint32
	BasePriority                 uint32
	UniqueProcessId              uint32
	InheritedFromUniqueProcessId uint32
}

// ProcessBasicInformation64 mirrors PROCESS_BASIC_INFORMATION as laid out
// on a 64-bit target.
type ProcessBasicInformation64 struct {
	ExitStatus                   uint64
	PebBaseAddress               uint64
	AffinityMask                 uint64
	BasePriority                 uint64
	UniqueProcessId              uint64
	InheritedFromUniqueProcessId uint64
}

// NtQueryInformationProcess issues the two-call-shaped query against a
// same-bitness target: infoClass selects the structure, buf must already
// be sized for it.
func NtQueryInformationProcess(h windows.Handle, infoClass uint32, buf []byte) (uint32, error) {
	var returnLength uint32
	var bufPtr uintptr
	if len(buf) > 0 {
		bufPtr = uintptr(unsafe.Pointer(&buf[0]))
	}
	r1, _, _ := procNtQueryInformationProcess.Call(
		uintptr(h),
		uintptr(infoClass),
		bufPtr,
		uintptr(len(buf)),
		uintptr(unsafe.Pointer(&returnLength)),
	)
	if err := ntStatus("NtQueryInformationProcess", uint32(r1)); err != nil {
		return returnLength, err
	}
	return returnLength, nil
}

// NtQueryInformationThread issues the two-call-shaped query against a
// same-bitness target thread.
func NtQueryInformationThread(h windows.Handle, infoClass uint32, buf []byte) (uint32, error) {
	var returnLength uint32
	var bufPtr uintptr
	if len(buf) > 0 {
		bufPtr = uintptr(unsafe.Pointer(&buf[0]))
	}
	r1, _, _ := procNtQueryInformationThread.Call(
		uintptr(h),
		uintptr(infoClass),
		bufPtr,
		uintptr(len(buf)),
		uintptr(unsafe.Pointer(&returnLength)),
	)
	if err := ntStatus("NtQueryInformationThread", uint32(r1)); err != nil {
		return returnLength, err
	}
	return returnLength, nil
}

// NtCreateThreadEx creates a thread in h's process space starting at
// startAddr with the given argument, returning the new thread's handle.
func NtCreateThreadEx(h windows.Handle, startAddr, arg uintptr, suspended bool) (windows.Handle, error) {
	var flags uintptr
	if suspended {
		flags = 1 // THREAD_CREATE_FLAGS_CREATE_SUSPENDED
	}
	var thread windows.Handle
	r1, _, _ := procNtCreateThreadEx.Call(
		uintptr(unsafe.Pointer(&thread)),
		uintptr(0x1FFFFF), // THREAD_ALL_ACCESS
		0,                 // ObjectAttributes
		uintptr(h),
		startAddr,
		arg,
		flags,
		0, 0, 0,
		0, // lpBytesBuffer (optional, unused)
	)
	if err := ntStatus("NtCreateThreadEx", uint32(r1)); err != nil {
		return 0, err
	}
	return thread, nil
}
