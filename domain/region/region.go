// Package region holds the memory-query result type shared by every
// MemoryAccessor implementation.
package region

// State mirrors MEMORY_BASIC_INFORMATION.State.
type State uint32

const (
	StateCommit  State = 0x1000
	StateFree    State = 0x10000
	StateReserve State = 0x2000
)

// Protect mirrors MEMORY_BASIC_INFORMATION.Protect (a subset used here).
type Protect uint32

const (
	ProtectNoAccess         Protect = 0x01
	ProtectReadOnly         Protect = 0x02
	ProtectReadWrite        Protect = 0x04
	ProtectWriteCopy        Protect = 0x08
	ProtectExecute          Protect = 0x10
	ProtectExecuteRead      Protect = 0x20
	ProtectExecuteReadWrite Protect = 0x40
)

// Type mirrors MEMORY_BASIC_INFORMATION.Type.
type Type uint32

const (
	TypeImage   Type = 0x1000000
	TypeMapped  Type = 0x40000
	TypePrivate Type = 0x20000
)

// Region is a parameterized view of MEMORY_BASIC_INFORMATION: the fields
// present regardless of the target's pointer width.
type Region struct {
	Base    uint64
	Size    uint64
	State   State
	Protect Protect
	Kind    Type
}

// End returns the address one past the end of the region.
func (r Region) End() uint64 {
	return r.Base + r.Size
}
