//go:build windows

package memory

import (
	"golang.org/x/sys/windows"

	"wincore/domain/bitness"
)

// NewRemote64In32 constructs the accessor for a 64-bit controller reading a
// 32-bit (WoW64) target (§4.1's Narrowing pair). The kernel translates
// ReadProcessMemory/WriteProcessMemory/VirtualXxxEx transparently across
// this combination — no NtWow64 thunk is needed, unlike HeavensGate — so
// this is RemoteSameBitness with the target's narrower width recorded;
// callers reinterpreting a field as a pointer must still treat it as
// 4 bytes, which bitness.Pair.Narrowing signals.
func NewRemote64In32(h windows.Handle) RemoteSameBitness {
	return NewRemoteSameBitness(h, bitness.Width32)
}
