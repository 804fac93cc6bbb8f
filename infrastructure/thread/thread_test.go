//go:build windows

package thread

import (
	"errors"
	"testing"
	"time"

	"wincore/domain/werrors"
)

func TestCurrentThreadWaitRefusesWithoutCallingKernel(t *testing.T) {
	ct := CurrentThread(nil)
	_, err := ct.Wait(time.Second)
	var deadlock werrors.WouldDeadlock
	if !errors.As(err, &deadlock) {
		t.Fatalf("CurrentThread.Wait() error = %v, want WouldDeadlock", err)
	}
}

func TestCurrentThreadPseudoHandleNeverClosed(t *testing.T) {
	ct := CurrentThread(nil)
	if err := ct.h.Close(); err != nil {
		t.Fatalf("Close() on pseudo handle = %v, want nil", err)
	}
}
