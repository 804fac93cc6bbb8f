//go:build windows

package system

import (
	"context"
	"os"
	"testing"
)

func TestProcessesIncludesCallingProcess(t *testing.T) {
	s := New()
	ctx := context.Background()

	procs, err := s.Processes(ctx)
	if err != nil {
		t.Fatalf("Processes() error = %v", err)
	}
	if len(procs) == 0 {
		t.Fatalf("Processes() returned no entries")
	}

	pid := uint32(os.Getpid())
	found := false
	for _, p := range procs {
		if p.Pid == pid {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("calling process (pid %d) not present in snapshot", pid)
	}
}

func TestThreadsReturnsNonEmptySnapshot(t *testing.T) {
	s := New()
	threads, err := s.Threads(context.Background())
	if err != nil {
		t.Fatalf("Threads() error = %v", err)
	}
	if len(threads) == 0 {
		t.Fatalf("Threads() returned no entries")
	}
}
