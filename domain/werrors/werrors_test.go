package werrors

import (
	"errors"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"OsError", NewOsError("ReadProcessMemory", 0x5), "ReadProcessMemory: os error 0x5"},
		{"NtStatus", NewNtStatus("NtQueryInformationProcess", StatusPartialCopy), "NtQueryInformationProcess: NTSTATUS 0xc000000d"},
		{"Unsupported", NewUnsupported("NtWow64ReadVirtualMemory64"), "NtWow64ReadVirtualMemory64 is not supported on this OS"},
		{"BitnessMismatch", NewBitnessMismatch("CONTEXT64", "CONTEXT32"), "bitness mismatch: want CONTEXT64, got CONTEXT32"},
		{"NotWow64", NewNotWow64(), "process is not running under WoW64"},
		{"PebUnavailable", NewPebUnavailable(1234), "PEB unavailable for pid 1234"},
		{"LdrUnavailable", NewLdrUnavailable(), "Ldr is unavailable"},
		{"LoaderListCorrupt", NewLoaderListCorrupt(4096), "loader module list did not terminate after 4096 entries"},
		{"NullPointer", NewNullPointer("Ldr"), `null pointer dereference at field "Ldr"`},
		{"WouldDeadlock", NewWouldDeadlock("wait"), "wait would deadlock on the current thread"},
		{"ProcessExited", NewProcessExited(42, 1), "process 42 exited with code 1"},
		{"Partial", NewPartial(3), "partial read: got 3 bytes"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.err.Error(); got != c.want {
				t.Errorf("Error() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestErrorsAsTarget(t *testing.T) {
	var err error = NewNotWow64()
	var target NotWow64
	if !errors.As(err, &target) {
		t.Fatal("expected errors.As to match NotWow64")
	}
}
