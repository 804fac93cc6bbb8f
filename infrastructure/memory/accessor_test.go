package memory

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"wincore/domain/bitness"
	"wincore/domain/region"
	"wincore/domain/werrors"
)

// stubAccessor is a fixed-layout fake MemoryAccessor: a flat byte buffer
// plus a fixed list of regions to hand back from Query, in address order.
type stubAccessor struct {
	mem     []byte
	regions []region.Region
}

func (s *stubAccessor) Read(addr uint64, n int) ([]byte, error) {
	if int(addr)+n > len(s.mem) {
		return nil, werrors.NewOsError("stubAccessor.Read", 0)
	}
	out := make([]byte, n)
	copy(out, s.mem[addr:int(addr)+n])
	return out, nil
}

func (s *stubAccessor) Write(addr uint64, data []byte) error {
	copy(s.mem[addr:], data)
	return nil
}

func (s *stubAccessor) Query(addr uint64) (region.Region, error) {
	for _, r := range s.regions {
		if r.Base == addr {
			return r, nil
		}
	}
	return region.Region{}, werrors.NewOsError("stubAccessor.Query: no such region", 0)
}

func (s *stubAccessor) Alloc(size uint64) (uint64, error)            { return 0, nil }
func (s *stubAccessor) Free(addr uint64) error                       { return nil }
func (s *stubAccessor) MappedFilename(uint64) (string, bool, error)  { return "", false, nil }
func (s *stubAccessor) TargetWidth() bitness.Width                   { return bitness.Width64 }

func TestRegionIteratorAdvancesMonotonicallyThenStops(t *testing.T) {
	acc := &stubAccessor{
		regions: []region.Region{
			{Base: 0, Size: 0x1000, State: region.StateCommit},
			{Base: 0x1000, Size: 0x2000, State: region.StateFree},
			{Base: 0x3000, Size: 0x1000, State: region.StateCommit},
		},
	}
	it := NewRegionIterator(acc)

	var got []region.Region
	for {
		r, ok, err := it.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if !ok {
			break
		}
		got = append(got, r)
	}
	if diff := cmp.Diff(acc.regions, got); diff != "" {
		t.Errorf("enumeration mismatch (-want +got):\n%s", diff)
	}

	// A fresh iterator restarts from 0 independent of a prior one's state.
	it2 := NewRegionIterator(acc)
	first, ok, err := it2.Next()
	if err != nil || !ok {
		t.Fatalf("fresh iterator Next() = %v, %v, %v", first, ok, err)
	}
	if first.Base != 0 {
		t.Errorf("fresh iterator started at base %#x, want 0", first.Base)
	}
}

func TestRegionIteratorStopsOnZeroSizeRegion(t *testing.T) {
	acc := &stubAccessor{
		regions: []region.Region{{Base: 0, Size: 0}},
	}
	it := NewRegionIterator(acc)
	_, ok, err := it.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if ok {
		t.Fatalf("expected enumeration to stop at a zero-size region")
	}
}

func TestReadStringStopsAtNulAcrossChunkBoundary(t *testing.T) {
	mem := make([]byte, pageSize+32)
	msg := []byte("hello-world")
	copy(mem[pageSize-4:], msg) // straddles the page boundary at pageSize
	mem[pageSize-4+len(msg)] = 0
	acc := &stubAccessor{mem: mem}

	got, err := ReadString(acc, uint64(pageSize-4), 64)
	if err != nil {
		t.Fatalf("ReadString() error = %v", err)
	}
	if got != "hello-world" {
		t.Errorf("ReadString() = %q, want %q", got, "hello-world")
	}
}

func TestReadWStringDecodesUtf16AndStopsAtDoubleZero(t *testing.T) {
	mem := make([]byte, 64)
	// "hi" in UTF-16LE followed by a zero code unit.
	copy(mem, []byte{'h', 0, 'i', 0, 0, 0})
	acc := &stubAccessor{mem: mem}

	got, err := ReadWString(acc, 0, 32)
	if err != nil {
		t.Fatalf("ReadWString() error = %v", err)
	}
	if got != "hi" {
		t.Errorf("ReadWString() = %q, want %q", got, "hi")
	}
}

func TestReadRemoteUnicodeStringRejectsNullBuffer(t *testing.T) {
	acc := &stubAccessor{mem: make([]byte, 16)}
	if _, err := ReadRemoteUnicodeString(acc, 0, 4); err == nil {
		t.Fatalf("expected error for a null buffer pointer")
	}
}
