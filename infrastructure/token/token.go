//go:build windows

// Package token decodes the two token properties this core surfaces
// (§4.8): process integrity level and elevation state, both read via the
// GetTokenInformationSize/GetTokenInformation two-call probe in
// infrastructure/winapi.
package token

import (
	"encoding/binary"
	"unsafe"

	"golang.org/x/sys/windows"

	"wincore/domain/winconst"
	"wincore/infrastructure/winapi"
)

// IntegrityLevel is SECURITY_MANDATORY_*_RID (0x1000 low, 0x2000 medium,
// 0x3000 high, 0x4000 system, ...), the last sub-authority of the SID
// carried in a TOKEN_MANDATORY_LABEL.
type IntegrityLevel uint32

const (
	IntegrityUntrusted IntegrityLevel = 0x0000
	IntegrityLow       IntegrityLevel = 0x1000
	IntegrityMedium    IntegrityLevel = 0x2000
	IntegrityHigh      IntegrityLevel = 0x3000
	IntegritySystem    IntegrityLevel = 0x4000
)

// Of opens h's process token and decodes both properties in one call.
func Of(h windows.Handle) (IntegrityLevel, bool, error) {
	tok, err := winapi.OpenProcessToken(h)
	if err != nil {
		return 0, false, err
	}
	defer tok.Close()

	level, err := integrityLevel(tok)
	if err != nil {
		return 0, false, err
	}
	elevated, err := isElevated(tok)
	if err != nil {
		return 0, false, err
	}
	return level, elevated, nil
}

// integrityLevel decodes TokenIntegrityLevel's TOKEN_MANDATORY_LABEL: the
// buffer GetTokenInformation fills is a SID_AND_ATTRIBUTES whose Sid
// pointer is valid in the calling process (the token was opened by this
// same process), so it is dereferenced directly rather than walked as raw
// bytes.
func integrityLevel(tok windows.Token) (IntegrityLevel, error) {
	size, err := winapi.GetTokenInformationSize(tok, winconst.TokenIntegrityLevel)
	if err != nil {
		return 0, err
	}
	buf := make([]byte, size)
	if err := winapi.GetTokenInformation(tok, winconst.TokenIntegrityLevel, buf); err != nil {
		return 0, err
	}

	return decodeIntegrityLevel(buf), nil
}

// decodeIntegrityLevel extracts the mandatory-label SID's last
// sub-authority out of a raw TOKEN_MANDATORY_LABEL buffer. The Sid
// pointer it contains is valid in the calling process (the token was
// opened by this same process), so it is dereferenced directly rather
// than walked as raw bytes.
func decodeIntegrityLevel(buf []byte) IntegrityLevel {
	label := (*windows.Tokenmandatorylabel)(unsafe.Pointer(&buf[0]))
	sid := label.Label.Sid
	count := *sid.SubAuthorityCount()
	if count == 0 {
		return 0
	}
	return IntegrityLevel(*sid.SubAuthority(count - 1))
}

// isElevated decodes TokenElevation: a single DWORD boolean.
func isElevated(tok windows.Token) (bool, error) {
	size, err := winapi.GetTokenInformationSize(tok, winconst.TokenElevation)
	if err != nil {
		return false, err
	}
	buf := make([]byte, size)
	if err := winapi.GetTokenInformation(tok, winconst.TokenElevation, buf); err != nil {
		return false, err
	}
	if len(buf) < 4 {
		return false, nil
	}
	return binary.LittleEndian.Uint32(buf) != 0, nil
}
