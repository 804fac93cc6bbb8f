package remotestruct

import (
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"wincore/domain/bitness"
	"wincore/domain/region"
	"wincore/domain/werrors"
)

// fakeAccessor is an in-memory application.MemoryAccessor backed by a flat
// byte slice addressed from base 0, enough to exercise Remote[S] field
// reads without a real process.
type fakeAccessor struct {
	width bitness.Width
	mem   []byte
}

func newFakeAccessor(width bitness.Width, size int) *fakeAccessor {
	return &fakeAccessor{width: width, mem: make([]byte, size)}
}

func (f *fakeAccessor) Read(addr uint64, n int) ([]byte, error) {
	if int(addr)+n > len(f.mem) {
		return nil, werrors.NewOsError("fakeAccessor.Read", 0)
	}
	out := make([]byte, n)
	copy(out, f.mem[addr:int(addr)+n])
	return out, nil
}

func (f *fakeAccessor) Write(addr uint64, data []byte) error {
	copy(f.mem[addr:], data)
	return nil
}

func (f *fakeAccessor) Query(addr uint64) (region.Region, error) { return region.Region{}, nil }
func (f *fakeAccessor) Alloc(size uint64) (uint64, error)        { return 0, nil }
func (f *fakeAccessor) Free(addr uint64) error                   { return nil }
func (f *fakeAccessor) MappedFilename(addr uint64) (string, bool, error) {
	return "", false, nil
}
func (f *fakeAccessor) TargetWidth() bitness.Width { return f.width }

func TestSizeofMatchesWindowsAbiOnBothWidths(t *testing.T) {
	cases := []struct {
		name  string
		desc  *Descriptor
		want32 uintptr
		want64 uintptr
	}{
		{"ListEntry", DescriptorForType[ListEntry](), 8, 16},
		{"ProcessBasicInformation", DescriptorForType[ProcessBasicInformation](), 24, 48},
		{"Peb", DescriptorForType[Peb](), 20, 40},
		{"LdrDataTableEntry", DescriptorForType[LdrDataTableEntry](), 52, 104},
		{"RtlUserProcessParameters", DescriptorForType[RtlUserProcessParameters](), 76, 136},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.desc.Sizeof(bitness.Width32); got != c.want32 {
				t.Errorf("Sizeof(32) = %d, want %d", got, c.want32)
			}
			if got := c.desc.Sizeof(bitness.Width64); got != c.want64 {
				t.Errorf("Sizeof(64) = %d, want %d", got, c.want64)
			}
		})
	}
}

// TestRtlUserProcessParametersImagePathAndCommandLineOffsets pins
// ImagePathName and CommandLine to their real RTL_USER_PROCESS_PARAMETERS
// offsets on both widths (0x38/0x40 on x86, 0x60/0x70 on x64) — the
// reserved prefix ahead of CurrentDirectory is four ULONGs plus five
// pointer-sized slots, not ten, and a wrong prefix size silently shifts
// every field read after it.
func TestRtlUserProcessParametersImagePathAndCommandLineOffsets(t *testing.T) {
	desc := DescriptorForType[RtlUserProcessParameters]()

	cases := []struct {
		width           bitness.Width
		imagePathOffset uintptr
		commandLine     uintptr
	}{
		{bitness.Width32, 0x38, 0x40},
		{bitness.Width64, 0x60, 0x70},
	}
	for _, c := range cases {
		layout := desc.Layout(c.width)
		imagePath, ok := fieldLayout(layout, "ImagePathName")
		if !ok {
			t.Fatalf("width %v: no ImagePathName field in layout", c.width)
		}
		if imagePath.Offset != c.imagePathOffset {
			t.Errorf("width %v: ImagePathName offset = %#x, want %#x", c.width, imagePath.Offset, c.imagePathOffset)
		}
		commandLine, ok := fieldLayout(layout, "CommandLine")
		if !ok {
			t.Fatalf("width %v: no CommandLine field in layout", c.width)
		}
		if commandLine.Offset != c.commandLine {
			t.Errorf("width %v: CommandLine offset = %#x, want %#x", c.width, commandLine.Offset, c.commandLine)
		}
	}
}

func TestListEntryFlinkBlinkRoundTrip(t *testing.T) {
	acc := newFakeAccessor(bitness.Width64, 64)
	binary.LittleEndian.PutUint64(acc.mem[0:8], 0x1000)
	binary.LittleEndian.PutUint64(acc.mem[8:16], 0x2000)

	r := NewRemote[ListEntry](0, acc)
	flink, err := Flink(r)
	if err != nil {
		t.Fatalf("Flink() error = %v", err)
	}
	blink, err := Blink(r)
	if err != nil {
		t.Fatalf("Blink() error = %v", err)
	}
	if diff := cmp.Diff(uint64(0x1000), flink); diff != "" {
		t.Errorf("Flink mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(uint64(0x2000), blink); diff != "" {
		t.Errorf("Blink mismatch (-want +got):\n%s", diff)
	}
}

func TestPointerFieldNullReportsNullPointer(t *testing.T) {
	acc := newFakeAccessor(bitness.Width64, 64)
	r := NewRemote[Peb](0, acc)
	_, err := LdrOf(r)
	var nullErr werrors.NullPointer
	if !errors.As(err, &nullErr) {
		t.Fatalf("LdrOf() with zero Ldr field: error = %v, want NullPointer", err)
	}
}

func TestUnicodeStringDecodesLengthAndBuffer(t *testing.T) {
	acc := newFakeAccessor(bitness.Width32, 64)
	// LdrDataTableEntry on 32-bit: FullDllName begins at offset 36.
	binary.LittleEndian.PutUint16(acc.mem[36:38], 20) // Length
	binary.LittleEndian.PutUint16(acc.mem[38:40], 22) // MaximumLength
	binary.LittleEndian.PutUint32(acc.mem[40:44], 0x5000)

	r := NewRemote[LdrDataTableEntry](0, acc)
	us, err := EntryFullDllName(r)
	if err != nil {
		t.Fatalf("EntryFullDllName() error = %v", err)
	}
	want := WinUnicodeString{Length: 20, MaximumLength: 22, Buffer: 0x5000}
	if diff := cmp.Diff(want, us); diff != "" {
		t.Errorf("unicode string mismatch (-want +got):\n%s", diff)
	}
	if us.RuneCount() != 10 {
		t.Errorf("RuneCount() = %d, want 10", us.RuneCount())
	}
}

// DescriptorForType is a small test helper exposing DescriptorFor without
// requiring callers to hold a zero value of S around.
func DescriptorForType[S any]() *Descriptor {
	var zero S
	return DescriptorFor(reflect.TypeOf(zero))
}
