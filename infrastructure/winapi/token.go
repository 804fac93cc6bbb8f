//go:build windows

package winapi

import (
	"golang.org/x/sys/windows"
)

// OpenProcessToken opens the access token of the process owning h with
// full access.
func OpenProcessToken(h windows.Handle) (windows.Token, error) {
	var token windows.Token
	if err := windows.OpenProcessToken(h, windows.TOKEN_ALL_ACCESS, &token); err != nil {
		return 0, osError("OpenProcessToken", err)
	}
	return token, nil
}

// GetTokenInformationSize implements the two-call size-probe pattern
// (§4.8, §9): a zero-size probe call is expected to fail with
// ERROR_INSUFFICIENT_BUFFER, and that failure is deliberately suppressed.
func GetTokenInformationSize(token windows.Token, class uint32) (uint32, error) {
	var needed uint32
	err := windows.GetTokenInformation(token, class, nil, 0, &needed)
	if err != nil && err != windows.ERROR_INSUFFICIENT_BUFFER {
		return 0, osError("GetTokenInformation(size probe)", err)
	}
	return needed, nil
}

// GetTokenInformation fills buf (sized via GetTokenInformationSize) with
// the requested token information class.
func GetTokenInformation(token windows.Token, class uint32, buf []byte) error {
	var needed uint32
	if err := windows.GetTokenInformation(token, class, &buf[0], uint32(len(buf)), &needed); err != nil {
		return osError("GetTokenInformation", err)
	}
	return nil
}
