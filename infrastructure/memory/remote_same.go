//go:build windows

package memory

import (
	"golang.org/x/sys/windows"

	"wincore/domain/bitness"
	"wincore/domain/region"
	"wincore/domain/werrors"
	"wincore/infrastructure/winapi"
)

// RemoteSameBitness is the MemoryAccessor for a target sharing the
// controller's pointer width: the ordinary ReadProcessMemory/
// WriteProcessMemory/VirtualXxxEx family, no NtWow64 thunks involved
// (§4.1, scenarios S2 and S4-without-narrowing).
type RemoteSameBitness struct {
	handle windows.Handle
	width  bitness.Width
}

// NewRemoteSameBitness constructs an accessor over a target process handle
// whose pointer width matches the controller's.
func NewRemoteSameBitness(h windows.Handle, width bitness.Width) RemoteSameBitness {
	return RemoteSameBitness{handle: h, width: width}
}

func (r RemoteSameBitness) Read(addr uint64, n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	got, err := winapi.ReadProcessMemory(r.handle, addr, buf)
	if err != nil {
		return nil, err
	}
	if got != n {
		return buf[:got], werrors.NewPartial(got)
	}
	return buf, nil
}

func (r RemoteSameBitness) Write(addr uint64, data []byte) error {
	return winapi.WriteProcessMemory(r.handle, addr, data)
}

func (r RemoteSameBitness) Query(addr uint64) (region.Region, error) {
	return winapi.VirtualQueryEx(r.handle, addr)
}

func (r RemoteSameBitness) Alloc(size uint64) (uint64, error) {
	return winapi.VirtualAllocEx(r.handle, size)
}

func (r RemoteSameBitness) Free(addr uint64) error {
	return winapi.VirtualFreeEx(r.handle, addr)
}

func (r RemoteSameBitness) MappedFilename(addr uint64) (string, bool, error) {
	return winapi.GetMappedFileName(r.handle, addr)
}

func (r RemoteSameBitness) TargetWidth() bitness.Width {
	return r.width
}
