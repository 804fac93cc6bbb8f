//go:build windows

// Package winapi is the winproxy external collaborator §6 describes: named
// thunks over the raw Win32/NT surface, each converting a non-success
// return into a werrors.OsError or werrors.NtStatus. Most of the ordinary
// Win32 calls are reused directly from golang.org/x/sys/windows (the same
// package the teacher's infrastructure/PAL/windows/wintun_windows.go
// depends on); the handful of Nt*/NtWow64* exports x/sys/windows does not
// wrap are resolved lazily here with windows.NewLazySystemDLL, following
// that same file's addrRecvPacket/addrRelPacket pattern.
package winapi

import "golang.org/x/sys/windows"

var (
	modntdll = windows.NewLazySystemDLL("ntdll.dll")

	procNtQueryInformationProcess = modntdll.NewProc("NtQueryInformationProcess")
	procNtQueryInformationThread  = modntdll.NewProc("NtQueryInformationThread")
	procNtCreateThreadEx          = modntdll.NewProc("NtCreateThreadEx")

	procNtWow64ReadVirtualMemory64      = modntdll.NewProc("NtWow64ReadVirtualMemory64")
	procNtWow64WriteVirtualMemory64     = modntdll.NewProc("NtWow64WriteVirtualMemory64")
	procNtWow64QueryInformationProcess64 = modntdll.NewProc("NtWow64QueryInformationProcess64")
	procNtWow64QueryVirtualMemory64     = modntdll.NewProc("NtWow64QueryVirtualMemory64")
	procNtWow64AllocateVirtualMemory64  = modntdll.NewProc("NtWow64AllocateVirtualMemory64")
	procNtWow64FreeVirtualMemory64      = modntdll.NewProc("NtWow64FreeVirtualMemory64")
	procNtWow64GetThreadContext         = modntdll.NewProc("NtWow64GetThreadContext")
	procNtWow64SetThreadContext         = modntdll.NewProc("NtWow64SetThreadContext")

	modkernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procThread32First = modkernel32.NewProc("Thread32First")
	procThread32Next  = modkernel32.NewProc("Thread32Next")

	modpsapi             = windows.NewLazySystemDLL("psapi.dll")
	procGetMappedFileNameA = modpsapi.NewProc("GetMappedFileNameA")
)

// available reports whether a lazily-resolved proc actually exists on this
// OS. The heaven's gate path is expected to be entirely absent on 32-bit-
// only Windows builds; §4.2 requires that the accessor fail with
// Unsupported on first use rather than at load time, which this check
// implements.
func available(p *windows.LazyProc) bool {
	return p.Find() == nil
}
