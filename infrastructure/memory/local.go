//go:build windows

package memory

import (
	"unsafe"

	"wincore/domain/bitness"
	"wincore/domain/region"
	"wincore/infrastructure/winapi"
)

// Local is the MemoryAccessor for CurrentProcess: no handle, no syscalls
// for read/write — just unsafe pointer access into the calling process's
// own address space (§4.1, scenario S1).
type Local struct{}

// NewLocal constructs the in-process accessor.
func NewLocal() Local { return Local{} }

func (Local) Read(addr uint64, n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	src := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), n)
	out := make([]byte, n)
	copy(out, src)
	return out, nil
}

func (Local) Write(addr uint64, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	dst := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), len(data))
	copy(dst, data)
	return nil
}

func (Local) Query(addr uint64) (region.Region, error) {
	return winapi.VirtualQuery(addr)
}

func (Local) Alloc(size uint64) (uint64, error) {
	return winapi.VirtualAlloc(size)
}

func (Local) Free(addr uint64) error {
	return winapi.VirtualFree(addr)
}

func (Local) MappedFilename(addr uint64) (string, bool, error) {
	return winapi.GetMappedFileName(winapi.CurrentProcessPseudoHandle(), addr)
}

func (Local) TargetWidth() bitness.Width {
	return bitness.Width(8 * unsafe.Sizeof(uintptr(0)))
}
