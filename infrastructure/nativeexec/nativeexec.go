//go:build windows

// Package nativeexec is the native_exec external collaborator (§6):
// assembles (in practice, emits two fixed byte sequences) and allocates an
// executable snippet, exposing create_function. The allocator backing it
// is process-wide, append-only, and lazily initialized at first use (§5,
// "Shared resources" (b); §9, "global mutable state").
package nativeexec

import (
	"sync"
	"unsafe"

	"golang.org/x/sync/singleflight"
	"golang.org/x/sys/windows"

	"wincore/domain/werrors"
)

const regionCapacity = 4096

var (
	allocOnce sync.Once
	allocErr  error
	region    uintptr

	bumpMu sync.Mutex
	used   uintptr

	cacheMu sync.Mutex
	cache   = map[string]uintptr{}
	group   singleflight.Group
)

func ensureRegion() error {
	allocOnce.Do(func() {
		addr, err := windows.VirtualAlloc(0, regionCapacity, windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_EXECUTE_READWRITE)
		if err != nil {
			allocErr = werrors.NewOsError("VirtualAlloc(nativeexec region)", uintptr(0))
			return
		}
		region = addr
	})
	return allocErr
}

// CreateFunction bump-allocates room for code inside the process-wide
// executable region, copies code into it, and returns the callable
// address. The allocation is never reclaimed: stubs accumulate for the
// life of the process, matching the "append-only" contract.
func CreateFunction(code []byte) (uintptr, error) {
	if err := ensureRegion(); err != nil {
		return 0, err
	}
	bumpMu.Lock()
	defer bumpMu.Unlock()
	if used+uintptr(len(code)) > regionCapacity {
		return 0, werrors.NewOsError("nativeexec.CreateFunction", 0)
	}
	dst := region + used
	dstSlice := unsafe.Slice((*byte)(unsafe.Pointer(dst)), len(code))
	copy(dstSlice, code)
	used += uintptr(len(code))
	return dst, nil
}

// cachedStub returns the address of a named fixed snippet, creating and
// caching it on first request. Concurrent first-requesters for the same
// key collapse onto one singleflight call, per the "ad-hoc property
// caching" redesign note in §9: the cached value is the result of the
// first successful computation and never changes thereafter.
func cachedStub(key string, code []byte) (uintptr, error) {
	cacheMu.Lock()
	if addr, ok := cache[key]; ok {
		cacheMu.Unlock()
		return addr, nil
	}
	cacheMu.Unlock()

	v, err, _ := group.Do(key, func() (any, error) {
		addr, err := CreateFunction(code)
		if err != nil {
			return uintptr(0), err
		}
		cacheMu.Lock()
		cache[key] = addr
		cacheMu.Unlock()
		return addr, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(uintptr), nil
}
