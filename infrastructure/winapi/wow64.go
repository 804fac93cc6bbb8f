//go:build windows

package winapi

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"wincore/domain/werrors"
)

// unsupportedIfMissing checks a heaven's-gate proc's availability and
// returns Unsupported if the export table lacks it — §4.2 requires this
// to fail at first use, not at process start, since these exports are
// absent on non-WoW64-capable Windows builds.
func unsupportedIfMissing(name string, p *windows.LazyProc) error {
	if !available(p) {
		return werrors.NewUnsupported(name)
	}
	return nil
}

// NtWow64ReadVirtualMemory64 reads n bytes from a 64-bit target's address
// space as seen from a 32-bit controller.
func NtWow64ReadVirtualMemory64(h windows.Handle, addr uint64, buf []byte) (int, error) {
	if err := unsupportedIfMissing("NtWow64ReadVirtualMemory64", procNtWow64ReadVirtualMemory64); err != nil {
		return 0, err
	}
	if len(buf) == 0 {
		return 0, nil
	}
	var read uint64
	r1, _, _ := procNtWow64ReadVirtualMemory64.Call(
		uintptr(h),
		uintptr(addr), uintptr(addr>>32),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)), 0,
		uintptr(unsafe.Pointer(&read)), uintptr(uint64(len(buf))>>32),
	)
	if err := ntStatus("NtWow64ReadVirtualMemory64", uint32(r1)); err != nil {
		return int(read), err
	}
	return int(read), nil
}

// NtWow64WriteVirtualMemory64 writes data into a 64-bit target's address
// space as seen from a 32-bit controller.
func NtWow64WriteVirtualMemory64(h windows.Handle, addr uint64, data []byte) error {
	if err := unsupportedIfMissing("NtWow64WriteVirtualMemory64", procNtWow64WriteVirtualMemory64); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	var written uint64
	r1, _, _ := procNtWow64WriteVirtualMemory64.Call(
		uintptr(h),
		uintptr(addr), uintptr(addr>>32),
		uintptr(unsafe.Pointer(&data[0])),
		uintptr(len(data)), 0,
		uintptr(unsafe.Pointer(&written)), uintptr(uint64(len(data))>>32),
	)
	if err := ntStatus("NtWow64WriteVirtualMemory64", uint32(r1)); err != nil {
		return err
	}
	if written != uint64(len(data)) {
		return werrors.NewPartial(int(written))
	}
	return nil
}

// NtWow64QueryInformationProcess64 issues an information-class query
// against a 64-bit target process, using a buffer shaped for the 64-bit
// structure (PROCESS_BASIC_INFORMATION64, etc).
func NtWow64QueryInformationProcess64(h windows.Handle, infoClass uint32, buf []byte) error {
	if err := unsupportedIfMissing("NtWow64QueryInformationProcess64", procNtWow64QueryInformationProcess64); err != nil {
		return err
	}
	var returnLength uint32
	r1, _, _ := procNtWow64QueryInformationProcess64.Call(
		uintptr(h),
		uintptr(infoClass),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
		uintptr(unsafe.Pointer(&returnLength)),
	)
	return ntStatus("NtWow64QueryInformationProcess64", uint32(r1))
}

// memoryBasicInformation64 mirrors MEMORY_BASIC_INFORMATION64, the layout
// NtWow64QueryVirtualMemory64 returns.
type memoryBasicInformation64 struct {
	BaseAddress       uint64
	AllocationBase    uint64
	AllocationProtect uint32
	_                 uint32 // alignment padding
	RegionSize        uint64
	State             uint32
	Protect           uint32
	Type              uint32
	_                 uint32
}

// NtWow64QueryVirtualMemory64 queries the region covering addr in a 64-bit
// target, as seen from a 32-bit controller.
func NtWow64QueryVirtualMemory64(h windows.Handle, addr uint64) (memoryBasicInformation64, error) {
	var mbi memoryBasicInformation64
	if err := unsupportedIfMissing("NtWow64QueryVirtualMemory64", procNtWow64QueryVirtualMemory64); err != nil {
		return mbi, err
	}
	var returnLength uint64
	r1, _, _ := procNtWow64QueryVirtualMemory64.Call(
		uintptr(h),
		uintptr(addr), uintptr(addr>>32),
		0, // MemoryBasicInformation
		uintptr(unsafe.Pointer(&mbi)),
		uintptr(unsafe.Sizeof(mbi)), 0,
		uintptr(unsafe.Pointer(&returnLength)), uintptr(returnLength>>32),
	)
	if err := ntStatus("NtWow64QueryVirtualMemory64", uint32(r1)); err != nil {
		return mbi, err
	}
	return mbi, nil
}

// NtWow64AllocateVirtualMemory64 commits size bytes of RW memory in a
// 64-bit target, as seen from a 32-bit controller.
func NtWow64AllocateVirtualMemory64(h windows.Handle, size uint64) (uint64, error) {
	if err := unsupportedIfMissing("NtWow64AllocateVirtualMemory64", procNtWow64AllocateVirtualMemory64); err != nil {
		return 0, err
	}
	var base uint64
	regionSize := size
	r1, _, _ := procNtWow64AllocateVirtualMemory64.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(&base)), uintptr(base>>32),
		0, 0,
		uintptr(unsafe.Pointer(&regionSize)), uintptr(regionSize>>32),
		0x1000|0x2000, // MEM_COMMIT | MEM_RESERVE
		0x04,          // PAGE_READWRITE
	)
	if err := ntStatus("NtWow64AllocateVirtualMemory64", uint32(r1)); err != nil {
		return 0, err
	}
	return base, nil
}

// NtWow64FreeVirtualMemory64 releases a region previously returned by
// NtWow64AllocateVirtualMemory64.
func NtWow64FreeVirtualMemory64(h windows.Handle, addr uint64) error {
	if err := unsupportedIfMissing("NtWow64FreeVirtualMemory64", procNtWow64FreeVirtualMemory64); err != nil {
		return err
	}
	var base = addr
	var size uint64
	r1, _, _ := procNtWow64FreeVirtualMemory64.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(&base)), uintptr(base>>32),
		uintptr(unsafe.Pointer(&size)), uintptr(size>>32),
		0x8000, // MEM_RELEASE
	)
	return ntStatus("NtWow64FreeVirtualMemory64", uint32(r1))
}

// NtWow64GetThreadContext64 reads a CONTEXT64 from a thread in a 64-bit
// target, as seen from a 32-bit controller. buf must be large enough for
// CONTEXT64 and 16-byte aligned, per the Windows x64 ABI.
func NtWow64GetThreadContext64(h windows.Handle, buf []byte) error {
	if err := unsupportedIfMissing("NtWow64GetThreadContext", procNtWow64GetThreadContext); err != nil {
		return err
	}
	r1, _, _ := procNtWow64GetThreadContext.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])))
	return ntStatus("NtWow64GetThreadContext", uint32(r1))
}

// NtWow64SetThreadContext64 writes a CONTEXT64 to a thread in a 64-bit
// target, as seen from a 32-bit controller.
func NtWow64SetThreadContext64(h windows.Handle, buf []byte) error {
	if err := unsupportedIfMissing("NtWow64SetThreadContext", procNtWow64SetThreadContext); err != nil {
		return err
	}
	r1, _, _ := procNtWow64SetThreadContext.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])))
	return ntStatus("NtWow64SetThreadContext", uint32(r1))
}
