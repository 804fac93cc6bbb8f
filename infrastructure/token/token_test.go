//go:build windows

package token

import (
	"testing"
	"unsafe"

	"golang.org/x/sys/windows"
)

// buildMandatoryLabel constructs a real TOKEN_MANDATORY_LABEL-shaped buffer
// around a well-known integrity SID, the same shape
// GetTokenInformation(TokenIntegrityLevel) returns.
func buildMandatoryLabel(t *testing.T, sidType windows.WELL_KNOWN_SID_TYPE) []byte {
	t.Helper()
	var sid *windows.SID
	n := uint32(windows.SECURITY_MAX_SID_SIZE)
	buf := make([]byte, n)
	if err := windows.CreateWellKnownSid(sidType, nil, (*windows.SID)(unsafe.Pointer(&buf[0])), &n); err != nil {
		t.Fatalf("CreateWellKnownSid() error = %v", err)
	}
	sid = (*windows.SID)(unsafe.Pointer(&buf[0]))

	label := windows.Tokenmandatorylabel{
		Label: windows.SIDAndAttributes{Sid: sid, Attributes: 0},
	}
	out := make([]byte, unsafe.Sizeof(label))
	*(*windows.Tokenmandatorylabel)(unsafe.Pointer(&out[0])) = label
	return out
}

func TestDecodeIntegrityLevelLow(t *testing.T) {
	buf := buildMandatoryLabel(t, windows.WinLowLabelSid)
	if got := decodeIntegrityLevel(buf); got != IntegrityLow {
		t.Fatalf("decodeIntegrityLevel() = %v, want IntegrityLow", got)
	}
}

func TestDecodeIntegrityLevelHigh(t *testing.T) {
	buf := buildMandatoryLabel(t, windows.WinHighLabelSid)
	if got := decodeIntegrityLevel(buf); got != IntegrityHigh {
		t.Fatalf("decodeIntegrityLevel() = %v, want IntegrityHigh", got)
	}
}
