package remotestruct

// WinUnicodeString is the decoded form of an LSA_UNICODE_STRING /
// UNICODE_STRING: Length and MaximumLength are byte counts, Buffer is the
// remote address of a UTF-16LE character array. It overlays the raw field
// the way original_source's winobject.py's UNICODE_STRING ctypes structure
// does, without requiring callers to know the struct's width-dependent
// padding.
type WinUnicodeString struct {
	Length        uint16
	MaximumLength uint16
	Buffer        uint64
}

// RuneCount returns the number of UTF-16 code units in the string (Length
// is a byte count and is always even for a well-formed value).
func (u WinUnicodeString) RuneCount() int {
	return int(u.Length / 2)
}
