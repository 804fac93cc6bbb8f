//go:build windows

package memory

import (
	"golang.org/x/sys/windows"

	"wincore/domain/bitness"
	"wincore/domain/region"
	"wincore/domain/werrors"
	"wincore/infrastructure/winapi"
)

// Remote32In64 is the MemoryAccessor for the heaven's-gate pair: a 32-bit
// controller introspecting a 64-bit target. Every operation goes through
// the NtWow64*64 family instead of the ordinary Xxx/XxxEx calls, which a
// 32-bit process cannot use against a 64-bit target at all (§4.1,
// scenario S3). Unsupported is returned, not panicked, the first time a
// thunk turns out to be absent — a non-WoW64-capable 32-bit Windows build
// has none of these exports.
type Remote32In64 struct {
	handle windows.Handle
}

// NewRemote32In64 constructs the heaven's-gate accessor over h, a handle
// to a 64-bit target process opened from a 32-bit controller.
func NewRemote32In64(h windows.Handle) Remote32In64 {
	return Remote32In64{handle: h}
}

func (r Remote32In64) Read(addr uint64, n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	got, err := winapi.NtWow64ReadVirtualMemory64(r.handle, addr, buf)
	if err != nil {
		return nil, err
	}
	if got != n {
		return buf[:got], werrors.NewPartial(got)
	}
	return buf, nil
}

func (r Remote32In64) Write(addr uint64, data []byte) error {
	return winapi.NtWow64WriteVirtualMemory64(r.handle, addr, data)
}

func (r Remote32In64) Query(addr uint64) (region.Region, error) {
	mbi, err := winapi.NtWow64QueryVirtualMemory64(r.handle, addr)
	if err != nil {
		return region.Region{}, err
	}
	return region.Region{
		Base:    mbi.BaseAddress,
		Size:    mbi.RegionSize,
		State:   region.State(mbi.State),
		Protect: region.Protect(mbi.Protect),
		Kind:    region.Type(mbi.Type),
	}, nil
}

func (r Remote32In64) Alloc(size uint64) (uint64, error) {
	return winapi.NtWow64AllocateVirtualMemory64(r.handle, size)
}

func (r Remote32In64) Free(addr uint64) error {
	return winapi.NtWow64FreeVirtualMemory64(r.handle, addr)
}

// MappedFilename has no NtWow64 equivalent; the toolhelp/psapi surface this
// relies on is resolved against the controller's own bitness view, so it
// is reported unsupported here rather than silently wrong.
func (r Remote32In64) MappedFilename(addr uint64) (string, bool, error) {
	return "", false, werrors.NewUnsupported("MappedFilename across heaven's gate")
}

func (r Remote32In64) TargetWidth() bitness.Width {
	return bitness.Width64
}
