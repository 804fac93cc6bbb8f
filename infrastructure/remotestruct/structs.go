package remotestruct

import "wincore/application"

// The logical struct definitions below carry only the members the loader
// walk, process introspection, and token lookups in this core actually
// touch — not the full Windows headers. Each mirrors the corresponding
// NT structure closely enough that its Sizeof on a given width matches the
// real ABI for the members present; see remote_test.go.
//
// Go forbids declaring methods on an instantiated generic type (Remote[S]
// for one concrete S), so the per-struct accessors below are free
// functions rather than methods — callers write ModuleListHead(r) instead
// of r.ModuleListHead().

// ListEntry is the intrusive doubly-linked list node every PEB loader list
// is built from.
type ListEntry struct {
	Flink uintptr `wc:"ptr"`
	Blink uintptr `wc:"ptr"`
}

// Flink follows a list node's forward link.
func Flink(r *Remote[ListEntry]) (uint64, error) { return r.Ptr("Flink") }

// Blink follows a list node's backward link.
func Blink(r *Remote[ListEntry]) (uint64, error) { return r.Ptr("Blink") }

// Peb is the Process Environment Block, §4.7.
type Peb struct {
	InheritedAddressSpace    byte    `wc:"u8"`
	ReadImageFileExecOptions byte    `wc:"u8"`
	BeingDebugged            byte    `wc:"u8"`
	BitField                 byte    `wc:"u8"`
	Mutant                   uintptr `wc:"ptr"`
	ImageBaseAddress         uintptr `wc:"ptr"`
	Ldr                      uintptr `wc:"ptr"`
	ProcessParameters        uintptr `wc:"ptr"`
}

// LdrOf follows the PEB_LDR_DATA pointer.
func LdrOf(r *Remote[Peb]) (*Remote[PebLdrData], error) {
	return pointerField[PebLdrData](&r.remoteCore, "Ldr")
}

// ProcessParametersOf follows the RTL_USER_PROCESS_PARAMETERS pointer.
func ProcessParametersOf(r *Remote[Peb]) (*Remote[RtlUserProcessParameters], error) {
	return pointerField[RtlUserProcessParameters](&r.remoteCore, "ProcessParameters")
}

// ImageBaseOf returns the loaded image's base address.
func ImageBaseOf(r *Remote[Peb]) (uint64, error) { return r.Ptr("ImageBaseAddress") }

// PebLdrData is PEB_LDR_DATA, holding the three loader list heads; the
// walker in infrastructure/peb only ever uses InMemoryOrderModuleList.
type PebLdrData struct {
	Length                          uint32    `wc:"u32"`
	Initialized                     byte      `wc:"u8"`
	Padding0                        [0]byte   `wc:"pad:3"`
	SsHandle                        uintptr   `wc:"ptr"`
	InLoadOrderModuleList           ListEntry `wc:"struct"`
	InMemoryOrderModuleList         ListEntry `wc:"struct"`
	InInitializationOrderModuleList ListEntry `wc:"struct"`
}

// ModuleListHead returns a view over the list head whose Flink chain the
// module walker follows.
func ModuleListHead(r *Remote[PebLdrData]) (*Remote[ListEntry], error) {
	return structField[ListEntry](&r.remoteCore, "InMemoryOrderModuleList")
}

// LdrDataTableEntry is LDR_DATA_TABLE_ENTRY, §4.7. InMemoryOrderLinks sits
// at offset 2*ptrsize (after InLoadOrderLinks), which is exactly the
// subtraction the walker applies to a module-list Flink value to recover
// an entry's base address.
type LdrDataTableEntry struct {
	InLoadOrderLinks           ListEntry        `wc:"struct"`
	InMemoryOrderLinks         ListEntry        `wc:"struct"`
	InInitializationOrderLinks ListEntry        `wc:"struct"`
	DllBase                    uintptr          `wc:"ptr"`
	EntryPoint                 uintptr          `wc:"ptr"`
	SizeOfImage                uint32           `wc:"u32"`
	FullDllName                WinUnicodeString `wc:"unicode"`
	BaseDllName                WinUnicodeString `wc:"unicode"`
}

// EntryModuleLinks returns the entry's module-list link node.
func EntryModuleLinks(r *Remote[LdrDataTableEntry]) (*Remote[ListEntry], error) {
	return structField[ListEntry](&r.remoteCore, "InMemoryOrderLinks")
}

// EntryDllBase returns the module's load address, 0 at the loader-list
// sentinel entry.
func EntryDllBase(r *Remote[LdrDataTableEntry]) (uint64, error) { return r.Ptr("DllBase") }

// EntrySizeOfImage returns the module's mapped image size.
func EntrySizeOfImage(r *Remote[LdrDataTableEntry]) (uint32, error) {
	return r.Uint32("SizeOfImage")
}

// EntryFullDllName returns the module's full path as a remote UTF-16
// string descriptor; the caller reads the characters through a
// MemoryAccessor.
func EntryFullDllName(r *Remote[LdrDataTableEntry]) (WinUnicodeString, error) {
	return r.UnicodeString("FullDllName")
}

// EntryBaseDllName returns the module's file-name-only descriptor.
func EntryBaseDllName(r *Remote[LdrDataTableEntry]) (WinUnicodeString, error) {
	return r.UnicodeString("BaseDllName")
}

// ProcessBasicInformation mirrors the fixed-size PROCESS_BASIC_INFORMATION
// NtQueryInformationProcess returns: six pointer-sized slots on every
// width. infrastructure/winapi has its own concrete struct for the raw
// syscall; this one exists so the engine can expose the same shape as a
// Remote view over memory already in hand (e.g. a value copied out by a
// heaven's-gate thunk).
type ProcessBasicInformation struct {
	ExitStatus                   uintptr `wc:"ptr"`
	PebBaseAddress                uintptr `wc:"ptr"`
	AffinityMask                  uintptr `wc:"ptr"`
	BasePriority                  uintptr `wc:"ptr"`
	UniqueProcessId                uintptr `wc:"ptr"`
	InheritedFromUniqueProcessId  uintptr `wc:"ptr"`
}

// PbiPebBaseAddress returns the target's PEB address.
func PbiPebBaseAddress(r *Remote[ProcessBasicInformation]) (uint64, error) {
	return r.Ptr("PebBaseAddress")
}

// RtlUserProcessParameters is RTL_USER_PROCESS_PARAMETERS, trimmed to the
// members this core surfaces (the command line and environment block);
// the leading reserved region is preserved only as padding so the fields
// after it land at their real offsets. The prefix before CurrentDirectory
// is four reserved ULONGs (MaximumLength, Length, Flags, DebugFlags) plus
// five pointer-sized slots (ConsoleHandle, ConsoleFlags+padding,
// StandardInput, StandardOutput, StandardError) — not ten.
type RtlUserProcessParameters struct {
	Reserved1              [0]byte          `wc:"pad:16"`
	Reserved2              [0]uintptr       `wc:"ptrarray:5"`
	CurrentDirectoryPath   WinUnicodeString `wc:"unicode"`
	CurrentDirectoryHandle uintptr          `wc:"ptr"`
	DllPath                WinUnicodeString `wc:"unicode"`
	ImagePathName          WinUnicodeString `wc:"unicode"`
	CommandLine            WinUnicodeString `wc:"unicode"`
	Environment            uintptr          `wc:"ptr"`
}

// UppCommandLine returns the process's command-line descriptor.
func UppCommandLine(r *Remote[RtlUserProcessParameters]) (WinUnicodeString, error) {
	return r.UnicodeString("CommandLine")
}

// UppImagePathName returns the process's image-path descriptor.
func UppImagePathName(r *Remote[RtlUserProcessParameters]) (WinUnicodeString, error) {
	return r.UnicodeString("ImagePathName")
}

// UppEnvironment returns the address of the process's environment block.
func UppEnvironment(r *Remote[RtlUserProcessParameters]) (uint64, error) {
	return r.Ptr("Environment")
}

// FromStructure constructs a Remote[S] at addr using acc's own target
// width, matching spec §4.3's RemoteStructure.from_structure(S) entry
// point.
func FromStructure[S any](addr uint64, acc application.MemoryAccessor) *Remote[S] {
	return NewRemote[S](addr, acc)
}
