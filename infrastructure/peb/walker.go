// Package peb walks a target process's loader module list (§4.7): starting
// from the PEB's Ldr pointer, it follows InMemoryOrderModuleList.Flink
// until the list's head sentinel is reached again, yielding one
// LoadedModule per LDR_DATA_TABLE_ENTRY.
package peb

import (
	"wincore/application"
	"wincore/domain/bitness"
	"wincore/domain/werrors"
	"wincore/infrastructure/memory"
	"wincore/infrastructure/remotestruct"
)

// LoadedModule is one entry of a walked loader list: the fields the core
// surfaces, decoded out of the target's address space.
type LoadedModule struct {
	Base        uint64
	SizeOfImage uint32
	FullDllName string
	BaseDllName string

	acc application.MemoryAccessor
	pe  application.PEReader
}

// PE lazily parses this module's PE headers through the PEReader supplied
// in application.Options, if any. Without one, PE() reports
// werrors.Unsupported rather than attempting any parsing itself — this
// core never inspects PE structure on its own (§5).
func (m LoadedModule) PE() (application.PEView, error) {
	if m.pe == nil {
		return nil, werrors.NewUnsupported("LoadedModule.PE: no PEReader configured")
	}
	return m.pe.GetPEFile(m.Base, m.acc)
}

// entryBase recovers an LDR_DATA_TABLE_ENTRY's address from a
// module-list Flink value: InMemoryOrderLinks is the list's second member
// (after InLoadOrderLinks), so its containing entry starts two
// pointer-widths earlier.
func entryBase(flink uint64, width bitness.Width) uint64 {
	return flink - 2*uint64(width.Size())
}

// Walk enumerates every module loaded in the process whose PEB lives at
// pebAddr, reading through acc. headAddr is the address of
// PEB_LDR_DATA.InMemoryOrderModuleList itself (the list head, never a real
// module entry) — Walk stops as soon as a Flink value returns to it.
//
// maxEntries bounds the walk (application.Options.MaxLoaderListEntries):
// exceeding it without returning to headAddr reports LoaderListCorrupt
// rather than looping forever on a list corrupted by a racing loader.
func Walk(pebAddr uint64, acc application.MemoryAccessor, maxEntries int, pe application.PEReader) ([]LoadedModule, error) {
	pebView := remotestruct.FromStructure[remotestruct.Peb](pebAddr, acc)
	ldr, err := remotestruct.LdrOf(pebView)
	if err != nil {
		return nil, werrors.NewLdrUnavailable()
	}

	head, err := remotestruct.ModuleListHead(ldr)
	if err != nil {
		return nil, err
	}
	headAddr := head.Addr()

	cur, err := remotestruct.Flink(head)
	if err != nil {
		return nil, err
	}

	var modules []LoadedModule
	visited := 0
	for cur != headAddr {
		if visited >= maxEntries {
			return nil, werrors.NewLoaderListCorrupt(visited)
		}
		visited++

		base := entryBase(cur, acc.TargetWidth())
		entry := remotestruct.FromStructure[remotestruct.LdrDataTableEntry](base, acc)

		dllBase, err := remotestruct.EntryDllBase(entry)
		if err != nil {
			return nil, err
		}
		if dllBase == 0 {
			break
		}
		sizeOfImage, err := remotestruct.EntrySizeOfImage(entry)
		if err != nil {
			return nil, err
		}
		fullName, err := readModuleName(acc, entry, remotestruct.EntryFullDllName)
		if err != nil {
			return nil, err
		}
		baseName, err := readModuleName(acc, entry, remotestruct.EntryBaseDllName)
		if err != nil {
			return nil, err
		}

		modules = append(modules, LoadedModule{
			Base:        dllBase,
			SizeOfImage: sizeOfImage,
			FullDllName: fullName,
			BaseDllName: baseName,
			acc:         acc,
			pe:          pe,
		})

		links, err := remotestruct.EntryModuleLinks(entry)
		if err != nil {
			return nil, err
		}
		cur, err = remotestruct.Flink(links)
		if err != nil {
			return nil, err
		}
	}
	return modules, nil
}

func readModuleName(
	acc application.MemoryAccessor,
	entry *remotestruct.Remote[remotestruct.LdrDataTableEntry],
	field func(*remotestruct.Remote[remotestruct.LdrDataTableEntry]) (remotestruct.WinUnicodeString, error),
) (string, error) {
	us, err := field(entry)
	if err != nil {
		return "", err
	}
	if us.Buffer == 0 || us.Length == 0 {
		return "", nil
	}
	return memory.ReadRemoteUnicodeString(acc, us.Buffer, us.Length)
}
