//go:build windows

package winapi

import (
	"golang.org/x/sys/windows"

	"wincore/domain/werrors"
)

// osError converts a non-nil error returned by an x/sys/windows call into
// a werrors.OsError, extracting the numeric code the spec's error taxonomy
// requires.
func osError(where string, err error) error {
	if err == nil {
		return nil
	}
	if errno, ok := err.(windows.Errno); ok {
		return werrors.NewOsError(where, uintptr(errno))
	}
	return werrors.NewOsError(where, 0)
}

// ntStatus converts a raw NTSTATUS return value into either nil (success),
// a werrors.OsError (STATUS_PARTIAL_COPY, reinterpreted per §7), or a
// werrors.NtStatus for any other failure.
func ntStatus(where string, status uint32) error {
	if status == 0 {
		return nil
	}
	if status == werrors.StatusPartialCopy {
		return werrors.NewOsError(where, uintptr(status))
	}
	return werrors.NewNtStatus(where, status)
}
