//go:build windows

// Package process is the Process/WinProcess object model (§4.1, §4.5):
// lazy handle acquisition, bitness-dispatched memory access, PEB/loader/
// token introspection, and remote thread execution, all addressed by pid.
package process

import (
	"sync"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sync/singleflight"
	"golang.org/x/sys/windows"

	"wincore/application"
	"wincore/domain/bitness"
	"wincore/domain/werrors"
	"wincore/domain/winconst"
	"wincore/infrastructure/handle"
	"wincore/infrastructure/memory"
	"wincore/infrastructure/nativeexec"
	"wincore/infrastructure/peb"
	"wincore/infrastructure/token"
	"wincore/infrastructure/winapi"
)

// Process is a live handle to a running process, identified by pid. Every
// property is resolved lazily and cached: a Process constructed for a pid
// that is never queried never opens a handle at all.
type Process struct {
	pid    uint32
	opts   application.Options
	logger application.Logger

	mu sync.Mutex
	h  *handle.Handle

	// nativeStub is set only by CurrentProcess: reading the PEB of the
	// calling process never needs NtQueryInformationProcess at all, just
	// the fs:[0x30]/gs:[0x60] TIB read nativeexec's stub performs in
	// process (§4.1, scenario S1/S5).
	nativeStub bool

	widthMu     sync.Mutex
	widthCached *bitness.Width
	widthGroup  singleflight.Group
}

// New constructs a Process for pid. No handle is opened until first use.
func New(pid uint32, opts application.Options, logger application.Logger) *Process {
	return &Process{pid: pid, opts: opts, logger: logger}
}

// Pid returns the process identifier this Process was constructed for.
func (p *Process) Pid() uint32 { return p.pid }

// Handle returns this process's OS handle, opening it on first call. The
// return type is the application.Handle port, not the concrete handle
// package, so callers depend only on the capability (Value/Wait/Close).
func (p *Process) Handle() (application.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.h != nil {
		return p.h, nil
	}
	v, err := winapi.OpenProcess(p.pid)
	if err != nil {
		return nil, err
	}
	p.h = handle.New(v, p.logger)
	return p.h, nil
}

func (p *Process) winHandle() (windows.Handle, error) {
	h, err := p.Handle()
	if err != nil {
		return 0, err
	}
	return windows.Handle(h.Value()), nil
}

// Width reports the target's pointer width (32 or 64), opening the
// process handle and probing IsWow64Process once; the result is cached
// behind a singleflight so concurrent first callers collapse onto one
// probe, matching the ad-hoc property caching pattern nativeexec's
// cachedStub uses.
func (p *Process) Width() (bitness.Width, error) {
	p.widthMu.Lock()
	if p.widthCached != nil {
		w := *p.widthCached
		p.widthMu.Unlock()
		return w, nil
	}
	p.widthMu.Unlock()

	v, err, _ := p.widthGroup.Do("width", func() (any, error) {
		wh, err := p.winHandle()
		if err != nil {
			return bitness.Width(0), err
		}
		wow64, err := winapi.IsWow64(wh)
		if err != nil {
			return bitness.Width(0), err
		}
		w := bitness.HostBitness()
		if wow64 {
			w = bitness.Width32
		}
		p.widthMu.Lock()
		p.widthCached = &w
		p.widthMu.Unlock()
		return w, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(bitness.Width), nil
}

// IsWow64 reports whether this process is running under WoW64.
func (p *Process) IsWow64() (bool, error) {
	w, err := p.Width()
	if err != nil {
		return false, err
	}
	return w == bitness.Width32 && bitness.HostBitness() == bitness.Width64, nil
}

// BitnessPair returns the (controller, target) pair this host/process
// combination forms, selecting which MemoryAccessor variant Accessor uses.
// The controller width is this process's own pointer width, which is 32 for
// a WoW64 controller even though the host is 64-bit.
func (p *Process) BitnessPair() (bitness.Pair, error) {
	target, err := p.Width()
	if err != nil {
		return bitness.Pair{}, err
	}
	controller := bitness.Width(8 * unsafe.Sizeof(uintptr(0)))
	return bitness.Pair{Controller: controller, Target: target}, nil
}

// accessorFor selects the MemoryAccessor variant for a bitness pair. It is
// a free function, independent of any live handle, so the dispatch logic
// is testable without opening a real process.
func accessorFor(pair bitness.Pair, wh windows.Handle) application.MemoryAccessor {
	switch {
	case pair.HeavensGate():
		return memory.NewRemote32In64(wh)
	case pair.Narrowing():
		return memory.NewRemote64In32(wh)
	default:
		return memory.NewRemoteSameBitness(wh, pair.Target)
	}
}

// Accessor returns the MemoryAccessor this process's bitness pair selects,
// opening the process handle if it has not been opened yet.
func (p *Process) Accessor() (application.MemoryAccessor, error) {
	wh, err := p.winHandle()
	if err != nil {
		return nil, err
	}
	pair, err := p.BitnessPair()
	if err != nil {
		return nil, err
	}
	return accessorFor(pair, wh), nil
}

// ReadByte, ReadUint32, and ReadUint64 are the fixed-width convenience
// readers §4.5 names (read_byte/read_dword/read_qword).
func (p *Process) ReadByte(addr uint64) (byte, error) {
	acc, err := p.Accessor()
	if err != nil {
		return 0, err
	}
	b, err := acc.Read(addr, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (p *Process) ReadUint32(addr uint64) (uint32, error) {
	acc, err := p.Accessor()
	if err != nil {
		return 0, err
	}
	b, err := acc.Read(addr, 4)
	if err != nil {
		return 0, err
	}
	return *(*uint32)(unsafe.Pointer(&b[0])), nil
}

func (p *Process) ReadUint64(addr uint64) (uint64, error) {
	acc, err := p.Accessor()
	if err != nil {
		return 0, err
	}
	b, err := acc.Read(addr, 8)
	if err != nil {
		return 0, err
	}
	return *(*uint64)(unsafe.Pointer(&b[0])), nil
}

// ReadPointer reads a pointer-sized value, widened to uint64, at the
// target's own pointer width.
func (p *Process) ReadPointer(addr uint64) (uint64, error) {
	w, err := p.Width()
	if err != nil {
		return 0, err
	}
	if w == bitness.Width32 {
		v, err := p.ReadUint32(addr)
		return uint64(v), err
	}
	return p.ReadUint64(addr)
}

// ScopedAlloc is a remote allocation that frees itself on Close.
type ScopedAlloc struct {
	Addr uint64
	acc  application.MemoryAccessor
}

// Close frees the allocation. Safe to call once; a second call returns
// whatever the underlying Free call reports (VirtualFreeEx on an
// already-freed region fails, which is surfaced rather than hidden).
func (s *ScopedAlloc) Close() error {
	return s.acc.Free(s.Addr)
}

// ScopedAlloc allocates size bytes in the target and returns a handle that
// frees it on Close — §4.5's scoped_alloc.
func (p *Process) ScopedAlloc(size uint64) (*ScopedAlloc, error) {
	acc, err := p.Accessor()
	if err != nil {
		return nil, err
	}
	addr, err := acc.Alloc(size)
	if err != nil {
		return nil, err
	}
	return &ScopedAlloc{Addr: addr, acc: acc}, nil
}

// Execute creates a remote thread at startAddr with the given argument,
// waits for it to finish, and returns its exit code (§4.5's execute()).
// Unlike ScopedAlloc, Execute never frees memory on the caller's behalf:
// if startAddr or arg point into a ScopedAlloc, closing it remains the
// caller's responsibility, deliberately, so a caller that wants the
// created thread to read its argument after Execute returns is never
// raced against an automatic free.
func (p *Process) Execute(startAddr, arg uint64) (uint32, error) {
	wh, err := p.winHandle()
	if err != nil {
		return 0, err
	}
	th, _, err := winapi.CreateRemoteThread(wh, uintptr(startAddr), uintptr(arg))
	if err != nil {
		return 0, err
	}
	defer winapi.CloseHandle(th)

	if _, err := winapi.Wait(th, winconst.Infinite); err != nil {
		return 0, err
	}
	return winapi.GetExitCodeThread(th)
}

// PebAddr resolves the target's PEB base address, dispatching on bitness
// pair: same-bitness and narrowing targets go through
// NtQueryInformationProcess, heaven's gate through
// NtWow64QueryInformationProcess64.
func (p *Process) PebAddr() (uint64, error) {
	wh, err := p.winHandle()
	if err != nil {
		return 0, err
	}
	pair, err := p.BitnessPair()
	if err != nil {
		return 0, err
	}

	if p.nativeStub && pair.SameBitness() {
		return p.pebAddrViaNativeStub(pair.Target)
	}

	if pair.HeavensGate() {
		buf := make([]byte, unsafe.Sizeof(winapi.ProcessBasicInformation64{}))
		if err := winapi.NtWow64QueryInformationProcess64(wh, winconst.ProcessBasicInformation, buf); err != nil {
			return 0, err
		}
		pbi := (*winapi.ProcessBasicInformation64)(unsafe.Pointer(&buf[0]))
		if pbi.PebBaseAddress == 0 {
			return 0, werrors.NewPebUnavailable(p.pid)
		}
		return pbi.PebBaseAddress, nil
	}

	if pair.Target == bitness.Width32 {
		buf := make([]byte, unsafe.Sizeof(winapi.ProcessBasicInformation32{}))
		if _, err := winapi.NtQueryInformationProcess(wh, winconst.ProcessBasicInformation, buf); err != nil {
			return 0, err
		}
		pbi := (*winapi.ProcessBasicInformation32)(unsafe.Pointer(&buf[0]))
		if pbi.PebBaseAddress == 0 {
			return 0, werrors.NewPebUnavailable(p.pid)
		}
		return uint64(pbi.PebBaseAddress), nil
	}

	buf := make([]byte, unsafe.Sizeof(winapi.ProcessBasicInformation64{}))
	if _, err := winapi.NtQueryInformationProcess(wh, winconst.ProcessBasicInformation, buf); err != nil {
		return 0, err
	}
	pbi := (*winapi.ProcessBasicInformation64)(unsafe.Pointer(&buf[0]))
	if pbi.PebBaseAddress == 0 {
		return 0, werrors.NewPebUnavailable(p.pid)
	}
	return pbi.PebBaseAddress, nil
}

// pebAddrViaNativeStub executes the in-process TIB-read stub
// (infrastructure/nativeexec) instead of issuing an NtQueryInformationProcess
// call, used only by CurrentProcess.
func (p *Process) pebAddrViaNativeStub(width bitness.Width) (uint64, error) {
	var stubAddr uintptr
	var err error
	if width == bitness.Width64 {
		stubAddr, err = nativeexec.PebStubAddr64()
	} else {
		stubAddr, err = nativeexec.PebStubAddr32()
	}
	if err != nil {
		return 0, err
	}
	ret, _, _ := syscall.SyscallN(stubAddr)
	if ret == 0 {
		return 0, werrors.NewPebUnavailable(p.pid)
	}
	return uint64(ret), nil
}

// PebSyswow resolves the 32-bit PEB of a WoW64 process as seen from a
// 64-bit controller — the Narrowing pair's own PEB, distinct from the
// 64-bit "native" PEB PebAddr would otherwise report for the same
// process, via ProcessWow64Information rather than ProcessBasicInformation.
func (p *Process) PebSyswow() (uint64, error) {
	wh, err := p.winHandle()
	if err != nil {
		return 0, err
	}
	var addr32 uint32
	buf := (*[4]byte)(unsafe.Pointer(&addr32))[:]
	if _, err := winapi.NtQueryInformationProcess(wh, winconst.ProcessWow64Information, buf); err != nil {
		return 0, err
	}
	if addr32 == 0 {
		return 0, werrors.NewNotWow64()
	}
	return uint64(addr32), nil
}

// Modules walks this process's loader module list, bounded by
// Options.MaxLoaderListEntries.
func (p *Process) Modules() ([]peb.LoadedModule, error) {
	pebAddr, err := p.PebAddr()
	if err != nil {
		return nil, err
	}
	acc, err := p.Accessor()
	if err != nil {
		return nil, err
	}
	return peb.Walk(pebAddr, acc, p.opts.MaxLoaderListEntries, p.opts.PEReader)
}

// Token reports this process's integrity level and elevation state.
func (p *Process) Token() (token.IntegrityLevel, bool, error) {
	wh, err := p.winHandle()
	if err != nil {
		return 0, false, err
	}
	return token.Of(wh)
}

// ExitCode reports the process's exit code, or winconst.StillActive while
// it is still running.
func (p *Process) ExitCode() (uint32, error) {
	wh, err := p.winHandle()
	if err != nil {
		return 0, err
	}
	return winapi.GetExitCodeProcess(wh)
}

// Exit terminates the process with the given exit code.
func (p *Process) Exit(code uint32) error {
	wh, err := p.winHandle()
	if err != nil {
		return err
	}
	return winapi.TerminateProcess(wh, code)
}

// Wait blocks up to timeout for the process to terminate.
func (p *Process) Wait(timeout time.Duration) (uint32, error) {
	h, err := p.Handle()
	if err != nil {
		return 0, err
	}
	return h.Wait(timeout)
}
