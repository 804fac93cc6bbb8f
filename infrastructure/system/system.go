//go:build windows

// Package system is the toolhelp-backed process/thread inventory (§4.6):
// System.Processes and System.Threads wrap the two CreateToolhelp32Snapshot
// walks in infrastructure/winapi, enriching each process entry with its
// pointer width by concurrently opening and probing every handle.
package system

import (
	"context"

	"golang.org/x/sync/errgroup"

	"wincore/domain/bitness"
	"wincore/infrastructure/winapi"
)

// maxConcurrentProbes bounds how many process handles are open at once
// while enriching a snapshot — the snapshot itself can hold thousands of
// entries on a busy host.
const maxConcurrentProbes = 32

// ProcessInfo is one toolhelp process record enriched with its pointer
// width, resolved by opening the process and checking IsWow64Process.
// Width is left at 0 (unknown) when the process could not be opened
// (commonly a protected-process access denial); this is reported, never
// treated as fatal to the whole enumeration.
type ProcessInfo struct {
	Pid   uint32
	Ppid  uint32
	Name  string
	Width bitness.Width
}

// ThreadInfo is one toolhelp thread record.
type ThreadInfo struct {
	Tid      uint32
	OwnerPid uint32
}

// System is the host-wide inventory root: the single entry point for
// enumerating every process and thread currently running, matching the
// teacher's single top-level Manager-per-concern shape.
type System struct{}

// New constructs a System. It carries no state of its own; every method
// takes a fresh toolhelp snapshot.
func New() *System { return &System{} }

// HostBitness reports the controlling host's native pointer width.
func (s *System) HostBitness() bitness.Width {
	return bitness.HostBitness()
}

// Processes takes a fresh snapshot and enriches every entry with its
// pointer width concurrently, bounded by maxConcurrentProbes. A single
// process that fails to open does not fail the whole call; its Width is
// left at 0.
func (s *System) Processes(ctx context.Context) ([]ProcessInfo, error) {
	entries, err := winapi.EnumerateProcesses()
	if err != nil {
		return nil, err
	}

	infos := make([]ProcessInfo, len(entries))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentProbes)
	for i, e := range entries {
		i, e := i, e
		infos[i] = ProcessInfo{Pid: e.Pid, Ppid: e.Ppid, Name: e.Name}
		g.Go(func() error {
			w, err := probeWidth(e.Pid)
			if err != nil {
				return nil
			}
			infos[i].Width = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return infos, nil
}

// Threads takes a fresh TH32CS_SNAPTHREAD snapshot of every thread on the
// host.
func (s *System) Threads(ctx context.Context) ([]ThreadInfo, error) {
	entries, err := winapi.EnumerateThreads()
	if err != nil {
		return nil, err
	}
	out := make([]ThreadInfo, len(entries))
	for i, e := range entries {
		out[i] = ThreadInfo{Tid: e.Tid, OwnerPid: e.OwnerPid}
	}
	return out, nil
}

func probeWidth(pid uint32) (bitness.Width, error) {
	h, err := winapi.OpenProcess(pid)
	if err != nil {
		return 0, err
	}
	defer winapi.CloseHandle(h)

	wow64, err := winapi.IsWow64(h)
	if err != nil {
		return 0, err
	}
	if wow64 {
		return bitness.Width32, nil
	}
	return bitness.HostBitness(), nil
}
