//go:build windows

package nativeexec

// The three fixed snippets this core ever needs to execute in-process.
// No general assembler is built (pe_parse/syswow64-style assemblers are
// out of scope, §1); these are the only machine code wincore emits.
var (
	// pebStub32 is `mov eax, fs:[0x30]; ret` — reads the 32-bit PEB
	// address from the Thread Information Block.
	pebStub32 = []byte{0x64, 0xA1, 0x30, 0x00, 0x00, 0x00, 0xC3}

	// pebStub64 is `mov rax, gs:[0x60]; ret` — reads the 64-bit PEB
	// address from the Thread Information Block.
	pebStub64 = []byte{0x65, 0x48, 0x8B, 0x04, 0x25, 0x60, 0x00, 0x00, 0x00, 0xC3}

	// retStub is a bare `ret`, used by scenario S5 to create a thread
	// that returns immediately with exit code 0.
	retStub = []byte{0xC3}
)

// PebStubAddr32 returns the callable address of the 32-bit PEB-read stub,
// creating it on first call.
func PebStubAddr32() (uintptr, error) {
	return cachedStub("peb32", pebStub32)
}

// PebStubAddr64 returns the callable address of the 64-bit PEB-read stub,
// creating it on first call.
func PebStubAddr64() (uintptr, error) {
	return cachedStub("peb64", pebStub64)
}

// RetStubAddr returns the callable address of the bare-ret stub, creating
// it on first call.
func RetStubAddr() (uintptr, error) {
	return cachedStub("ret", retStub)
}
