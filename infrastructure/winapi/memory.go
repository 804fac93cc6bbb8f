//go:build windows

package winapi

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"wincore/domain/region"
	"wincore/domain/werrors"
	"wincore/domain/winconst"
)

// ReadProcessMemory reads exactly len(buf) bytes from addr in the process
// owning h into buf, returning the number of bytes actually transferred.
func ReadProcessMemory(h windows.Handle, addr uint64, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	var n uintptr
	err := windows.ReadProcessMemory(h, uintptr(addr), &buf[0], uintptr(len(buf)), &n)
	if err != nil {
		return int(n), osError("ReadProcessMemory", err)
	}
	return int(n), nil
}

// WriteProcessMemory writes all of data to addr in the process owning h.
func WriteProcessMemory(h windows.Handle, addr uint64, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	var n uintptr
	err := windows.WriteProcessMemory(h, uintptr(addr), &data[0], uintptr(len(data)), &n)
	if err != nil {
		return osError("WriteProcessMemory", err)
	}
	if int(n) != len(data) {
		return werrors.NewPartial(int(n))
	}
	return nil
}

// VirtualAllocEx commits size bytes of RW memory in the process owning h.
func VirtualAllocEx(h windows.Handle, size uint64) (uint64, error) {
	addr, err := windows.VirtualAllocEx(h, nil, uintptr(size), winconst.MemCommit|winconst.MemReserve, winconst.PageRW)
	if err != nil {
		return 0, osError("VirtualAllocEx", err)
	}
	return uint64(addr), nil
}

// VirtualFreeEx releases a region previously returned by VirtualAllocEx.
func VirtualFreeEx(h windows.Handle, addr uint64) error {
	if err := windows.VirtualFreeEx(h, uintptr(addr), 0, winconst.MemRelease); err != nil {
		return osError("VirtualFreeEx", err)
	}
	return nil
}

// VirtualQueryEx returns the region covering addr in the process owning h.
func VirtualQueryEx(h windows.Handle, addr uint64) (region.Region, error) {
	var mbi windows.MemoryBasicInformation
	n, err := windows.VirtualQueryEx(h, uintptr(addr), &mbi, unsafe.Sizeof(mbi))
	if err != nil {
		return region.Region{}, osError("VirtualQueryEx", err)
	}
	if n == 0 {
		return region.Region{}, werrors.NewOsError("VirtualQueryEx", 0)
	}
	return region.Region{
		Base:    uint64(mbi.BaseAddress),
		Size:    uint64(mbi.RegionSize),
		State:   region.State(mbi.State),
		Protect: region.Protect(mbi.Protect),
		Kind:    region.Type(mbi.Type),
	}, nil
}

// VirtualQuery returns the region covering addr in the current process.
func VirtualQuery(addr uint64) (region.Region, error) {
	var mbi windows.MemoryBasicInformation
	if err := windows.VirtualQuery(uintptr(addr), &mbi, unsafe.Sizeof(mbi)); err != nil {
		return region.Region{}, osError("VirtualQuery", err)
	}
	return region.Region{
		Base:    uint64(mbi.BaseAddress),
		Size:    uint64(mbi.RegionSize),
		State:   region.State(mbi.State),
		Protect: region.Protect(mbi.Protect),
		Kind:    region.Type(mbi.Type),
	}, nil
}

// VirtualAlloc commits size bytes of RW memory in the current process.
func VirtualAlloc(size uint64) (uint64, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), winconst.MemCommit|winconst.MemReserve, winconst.PageRW)
	if err != nil {
		return 0, osError("VirtualAlloc", err)
	}
	return uint64(addr), nil
}

// VirtualFree releases a region previously returned by VirtualAlloc.
func VirtualFree(addr uint64) error {
	if err := windows.VirtualFree(uintptr(addr), 0, winconst.MemRelease); err != nil {
		return osError("VirtualFree", err)
	}
	return nil
}

// GetMappedFileName reports the image file mapped at addr, if any, via
// psapi's GetMappedFileNameA (§6 lists this among winproxy's consumed
// surface; it has no golang.org/x/sys/windows wrapper, so it is resolved
// the same way the teacher resolves WintunReceivePacket: a lazy DLL plus a
// raw syscall).
func GetMappedFileName(h windows.Handle, addr uint64) (string, bool, error) {
	buf := make([]byte, windows.MAX_PATH)
	r1, _, errno := procGetMappedFileNameA.Call(
		uintptr(h),
		uintptr(addr),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
	)
	if r1 == 0 {
		if errno == windows.ERROR_FILE_INVALID || errno == windows.ERROR_INVALID_ADDRESS {
			return "", false, nil
		}
		return "", false, osError("GetMappedFileNameA", errno)
	}
	return string(buf[:r1]), true, nil
}
