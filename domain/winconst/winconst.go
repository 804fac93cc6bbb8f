// Package winconst names the sentinel integers the core relies on, so they
// never appear as magic literals at call sites (per the teacher's
// "sentinel integers" redesign note).
package winconst

// STILL_ACTIVE is the exit code GetExitCodeProcess/Thread reports for a
// process or thread that has not terminated.
const StillActive uint32 = 259

// Infinite is the sentinel timeout meaning "wait forever".
const Infinite uint32 = 0xFFFFFFFF

// Toolhelp snapshot flags (TH32CS_*).
const (
	SnapProcess uint32 = 0x00000002
	SnapThread  uint32 = 0x00000004
)

// NtQueryInformationProcess information classes used by this core.
const (
	ProcessBasicInformation      uint32 = 0
	ProcessWow64Information      uint32 = 26
	ProcessBasicInformationWow64 uint32 = 26
)

// NtQueryInformationThread information classes used by this core.
const (
	ThreadQuerySetWin32StartAddress uint32 = 9
)

// Token information classes used by this core.
const (
	TokenIntegrityLevel uint32 = 25
	TokenElevation      uint32 = 20
)

// Process/thread access rights this core requests. PROCESS_ALL_ACCESS /
// THREAD_ALL_ACCESS are host-specific (differ pre/post Vista); these are
// the rights actually exercised by the operations in this package.
const (
	ProcessFullAccess uint32 = 0x1F0FFF
	ThreadFullAccess  uint32 = 0x1FFFFF
)

// Memory protection/allocation flags (the subset VirtualAllocEx/VirtualQueryEx
// need here).
const (
	MemCommit  uint32 = 0x1000
	MemReserve uint32 = 0x2000
	MemRelease uint32 = 0x8000
	PageRW     uint32 = 0x04
)
