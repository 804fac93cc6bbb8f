//go:build windows

package winapi

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"wincore/domain/winconst"
)

// ProcessEntry is a copy of one CreateToolhelp32Snapshot process record:
// owned data, never aliasing the kernel's reused enumeration buffer.
type ProcessEntry struct {
	Pid  uint32
	Ppid uint32
	Name string
}

// ThreadEntry is a copy of one toolhelp thread record.
type ThreadEntry struct {
	Tid      uint32
	OwnerPid uint32
}

// threadEntry32 mirrors THREADENTRY32; x/sys/windows has no wrapper for the
// thread-snapshot half of toolhelp, so it and Thread32First/Next are
// resolved the way other_examples' win32/thread_win32.go does it: a raw
// struct plus a lazy-DLL proc.
type threadEntry32 struct {
	size           uint32
	usage          uint32
	threadID       uint32
	ownerProcessID uint32
	basePri        int32
	deltaPri       int32
	flags          uint32
}

// EnumerateProcesses takes a TH32CS_SNAPPROCESS snapshot, copies every
// entry out, and closes the snapshot handle before returning (§4.6): the
// kernel reuses its enumeration buffer across Process32Next calls, so a
// literal retention of it would alias.
func EnumerateProcesses() ([]ProcessEntry, error) {
	snap, err := windows.CreateToolhelp32Snapshot(winconst.SnapProcess, 0)
	if err != nil {
		return nil, osError("CreateToolhelp32Snapshot", err)
	}
	defer windows.CloseHandle(snap)

	var entries []ProcessEntry
	var pe windows.ProcessEntry32
	pe.Size = uint32(unsafe.Sizeof(pe))
	if err := windows.Process32First(snap, &pe); err != nil {
		return nil, osError("Process32First", err)
	}
	for {
		entries = append(entries, ProcessEntry{
			Pid:  pe.ProcessID,
			Ppid: pe.ParentProcessID,
			Name: windows.UTF16ToString(pe.ExeFile[:]),
		})
		if err := windows.Process32Next(snap, &pe); err != nil {
			break
		}
	}
	return entries, nil
}

// EnumerateThreads takes a TH32CS_SNAPTHREAD snapshot and copies every
// entry out, closing the snapshot handle before returning.
func EnumerateThreads() ([]ThreadEntry, error) {
	snap, err := windows.CreateToolhelp32Snapshot(winconst.SnapThread, 0)
	if err != nil {
		return nil, osError("CreateToolhelp32Snapshot", err)
	}
	defer windows.CloseHandle(snap)

	var entries []ThreadEntry
	var te threadEntry32
	te.size = uint32(unsafe.Sizeof(te))
	ok, _, errno := procThread32First.Call(uintptr(snap), uintptr(unsafe.Pointer(&te)))
	if ok == 0 {
		return nil, osError("Thread32First", errno)
	}
	for ok != 0 {
		entries = append(entries, ThreadEntry{Tid: te.threadID, OwnerPid: te.ownerProcessID})
		ok, _, _ = procThread32Next.Call(uintptr(snap), uintptr(unsafe.Pointer(&te)))
	}
	return entries, nil
}
