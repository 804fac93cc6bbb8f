package peb

import (
	"encoding/binary"
	"testing"

	"wincore/application"
	"wincore/domain/bitness"
	"wincore/domain/region"
	"wincore/domain/werrors"
)

// fakeTarget is a flat-buffer application.MemoryAccessor standing in for a
// 64-bit target process, addressed directly by the offsets used below.
type fakeTarget struct {
	mem []byte
}

func newFakeTarget(size int) *fakeTarget { return &fakeTarget{mem: make([]byte, size)} }

func (f *fakeTarget) putU64(addr uint64, v uint64) {
	binary.LittleEndian.PutUint64(f.mem[addr:addr+8], v)
}
func (f *fakeTarget) putU32(addr uint64, v uint32) {
	binary.LittleEndian.PutUint32(f.mem[addr:addr+4], v)
}

func (f *fakeTarget) Read(addr uint64, n int) ([]byte, error) {
	if int(addr)+n > len(f.mem) {
		return nil, werrors.NewOsError("fakeTarget.Read", 0)
	}
	out := make([]byte, n)
	copy(out, f.mem[addr:int(addr)+n])
	return out, nil
}
func (f *fakeTarget) Write(addr uint64, data []byte) error { copy(f.mem[addr:], data); return nil }
func (f *fakeTarget) Query(uint64) (region.Region, error)  { return region.Region{}, nil }
func (f *fakeTarget) Alloc(uint64) (uint64, error)         { return 0, nil }
func (f *fakeTarget) Free(uint64) error                    { return nil }
func (f *fakeTarget) MappedFilename(uint64) (string, bool, error) {
	return "", false, nil
}
func (f *fakeTarget) TargetWidth() bitness.Width { return bitness.Width64 }

// buildTwoModuleList lays out a PEB, a PEB_LDR_DATA, and two
// LDR_DATA_TABLE_ENTRY records forming a closed circular module list, per
// the 64-bit offsets entryBase/Walk assume.
func buildTwoModuleList() (acc *fakeTarget, pebAddr uint64) {
	const (
		peb   = 0x1000
		ldr   = 0x2000
		entry1 = 0x3000
		entry2 = 0x4000
	)
	acc = newFakeTarget(0x4100)

	acc.putU64(peb+24, ldr) // Peb.Ldr

	headAddr := uint64(ldr + 32) // PebLdrData.InMemoryOrderModuleList
	acc.putU64(headAddr, entry1+16)

	// entry1
	acc.putU64(entry1+16, entry2+16) // InMemoryOrderLinks.Flink -> entry2
	acc.putU64(entry1+48, 0x5000)    // DllBase
	acc.putU32(entry1+64, 0x2000)    // SizeOfImage

	// entry2
	acc.putU64(entry2+16, headAddr) // InMemoryOrderLinks.Flink -> head (loop closes)
	acc.putU64(entry2+48, 0x6000)   // DllBase
	acc.putU32(entry2+64, 0x3000)   // SizeOfImage

	return acc, peb
}

func TestWalkReturnsModulesInListOrder(t *testing.T) {
	acc, pebAddr := buildTwoModuleList()

	modules, err := Walk(pebAddr, acc, 4096, nil)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(modules) != 2 {
		t.Fatalf("Walk() returned %d modules, want 2", len(modules))
	}
	if modules[0].Base != 0x5000 || modules[0].SizeOfImage != 0x2000 {
		t.Errorf("modules[0] = %+v", modules[0])
	}
	if modules[1].Base != 0x6000 || modules[1].SizeOfImage != 0x3000 {
		t.Errorf("modules[1] = %+v", modules[1])
	}
}

func TestWalkStopsAtZeroDllBaseSentinel(t *testing.T) {
	acc, pebAddr := buildTwoModuleList()
	acc.putU64(0x4030, 0) // entry2.DllBase = 0: walker should stop before appending it

	modules, err := Walk(pebAddr, acc, 4096, nil)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(modules) != 1 {
		t.Fatalf("Walk() returned %d modules, want 1", len(modules))
	}
}

func TestWalkReportsLoaderListCorruptWhenBoundExceeded(t *testing.T) {
	acc, pebAddr := buildTwoModuleList()
	// Break the loop: entry2 now points back at entry1 instead of head.
	acc.putU64(0x4010, 0x3010)

	_, err := Walk(pebAddr, acc, 1, nil)
	if err == nil {
		t.Fatalf("expected LoaderListCorrupt, got nil error")
	}
	var corrupt werrors.LoaderListCorrupt
	if !isLoaderListCorrupt(err, &corrupt) {
		t.Fatalf("Walk() error = %v, want LoaderListCorrupt", err)
	}
}

func isLoaderListCorrupt(err error, target *werrors.LoaderListCorrupt) bool {
	if c, ok := err.(werrors.LoaderListCorrupt); ok {
		*target = c
		return true
	}
	return false
}

type fakePEReader struct {
	gotBase uint64
}

func (f *fakePEReader) GetPEFile(base uint64, acc application.MemoryAccessor) (application.PEView, error) {
	f.gotBase = base
	return "parsed-pe", nil
}

func TestLoadedModulePEWithoutReaderReportsUnsupported(t *testing.T) {
	acc, pebAddr := buildTwoModuleList()

	modules, err := Walk(pebAddr, acc, 4096, nil)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if _, err := modules[0].PE(); err == nil {
		t.Fatalf("PE() with no reader configured: expected error, got nil")
	}
}

func TestLoadedModulePEDelegatesToConfiguredReader(t *testing.T) {
	acc, pebAddr := buildTwoModuleList()
	reader := &fakePEReader{}

	modules, err := Walk(pebAddr, acc, 4096, reader)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	view, err := modules[0].PE()
	if err != nil {
		t.Fatalf("PE() error = %v", err)
	}
	if view != "parsed-pe" {
		t.Fatalf("PE() = %v, want parsed-pe", view)
	}
	if reader.gotBase != modules[0].Base {
		t.Fatalf("GetPEFile base = %#x, want %#x", reader.gotBase, modules[0].Base)
	}
}
