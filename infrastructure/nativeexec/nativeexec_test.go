//go:build windows

package nativeexec

import "testing"

func TestCachedStubAddressIsStableAcrossCalls(t *testing.T) {
	a1, err := PebStubAddr64()
	if err != nil {
		t.Fatalf("PebStubAddr64() error = %v", err)
	}
	a2, err := PebStubAddr64()
	if err != nil {
		t.Fatalf("PebStubAddr64() error = %v", err)
	}
	if a1 != a2 {
		t.Fatalf("expected stable cached address, got %x then %x", a1, a2)
	}
}

func TestDistinctStubsGetDistinctAddresses(t *testing.T) {
	peb, err := PebStubAddr32()
	if err != nil {
		t.Fatalf("PebStubAddr32() error = %v", err)
	}
	ret, err := RetStubAddr()
	if err != nil {
		t.Fatalf("RetStubAddr() error = %v", err)
	}
	if peb == ret {
		t.Fatalf("expected distinct addresses for distinct stubs")
	}
}
