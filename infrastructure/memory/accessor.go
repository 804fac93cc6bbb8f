// Package memory implements application.MemoryAccessor for every
// controller/target bitness pair: Local (in-process), RemoteSameBitness,
// Remote32In64 (heaven's gate), and Remote64In32 (narrowing). Shared
// helpers live here; each variant's own file only supplies the raw
// read/write/query/alloc primitives.
package memory

import (
	"bytes"

	"golang.org/x/text/encoding/unicode"

	"wincore/application"
	"wincore/domain/region"
	"wincore/domain/werrors"
)

const pageSize = 4096

// RegionIterator walks an accessor's address space one VirtualQuery call
// at a time, advancing by each region's own size — a stateless, restartable
// sequence in the sense that a fresh NewRegionIterator always starts over
// at address 0, per §4.4's memory-space enumeration.
type RegionIterator struct {
	acc  application.MemoryAccessor
	addr uint64
	done bool
}

// NewRegionIterator begins an enumeration of acc's address space from 0.
func NewRegionIterator(acc application.MemoryAccessor) *RegionIterator {
	return &RegionIterator{acc: acc}
}

// Next returns the next region in address order. ok is false once the
// query fails (the conventional end-of-address-space signal) or a region
// reports zero size, which would otherwise loop forever.
func (it *RegionIterator) Next() (region.Region, bool, error) {
	if it.done {
		return region.Region{}, false, nil
	}
	r, err := it.acc.Query(it.addr)
	if err != nil {
		it.done = true
		return region.Region{}, false, nil
	}
	if r.Size == 0 {
		it.done = true
		return region.Region{}, false, nil
	}
	it.addr = r.End()
	return r, true, nil
}

// ReadString reads a NUL-terminated single-byte-character string starting
// at addr, chunking reads by page so a string straddling a page boundary
// (where the page past the terminator may be unmapped) never over-reads;
// a read that fails is re-issued at half the length, down to one byte.
// maxLen bounds the number of bytes examined.
func ReadString(acc application.MemoryAccessor, addr uint64, maxLen int) (string, error) {
	var out []byte
	for len(out) < maxLen {
		chunkLen := pageSize - int(addr%pageSize)
		if chunkLen > maxLen-len(out) {
			chunkLen = maxLen - len(out)
		}
		chunk, err := acc.Read(addr, chunkLen)
		for err != nil && chunkLen > 1 {
			chunkLen /= 2
			chunk, err = acc.Read(addr, chunkLen)
		}
		if err != nil {
			if len(out) > 0 {
				break
			}
			return "", err
		}
		if i := bytes.IndexByte(chunk, 0); i >= 0 {
			out = append(out, chunk[:i]...)
			return string(out), nil
		}
		out = append(out, chunk...)
		addr += uint64(chunkLen)
	}
	return string(out), nil
}

// ReadWString reads a NUL-terminated UTF-16LE string starting at addr, the
// same page-chunked, boundary-tolerant way ReadString does, stopping at a
// zero code unit rather than a zero byte. maxLen bounds the number of
// UTF-16 code units examined.
func ReadWString(acc application.MemoryAccessor, addr uint64, maxLen int) (string, error) {
	var raw []byte
	unitsRead := 0
	for unitsRead < maxLen {
		// Chunk by whole UTF-16 code units (2 bytes) within the current page.
		bytesLeftInPage := pageSize - int(addr%pageSize)
		unitsInPage := bytesLeftInPage / 2
		if unitsInPage == 0 {
			unitsInPage = 1
		}
		want := unitsInPage
		if want > maxLen-unitsRead {
			want = maxLen - unitsRead
		}
		chunk, err := acc.Read(addr, want*2)
		for err != nil && want > 1 {
			want /= 2
			chunk, err = acc.Read(addr, want*2)
		}
		if err != nil {
			if len(raw) > 0 {
				break
			}
			return "", err
		}
		terminated := false
		for i := 0; i+1 < len(chunk); i += 2 {
			if chunk[i] == 0 && chunk[i+1] == 0 {
				raw = append(raw, chunk[:i]...)
				terminated = true
				break
			}
		}
		if terminated {
			return decodeUTF16LE(raw)
		}
		raw = append(raw, chunk...)
		unitsRead += len(chunk) / 2
		addr += uint64(len(chunk))
	}
	return decodeUTF16LE(raw)
}

// ReadRemoteUnicodeString reads the character data a remotestruct
// WinUnicodeString descriptor points at, decoding exactly Length bytes (no
// terminator assumed — LSA_UNICODE_STRING is not guaranteed NUL-terminated).
func ReadRemoteUnicodeString(acc application.MemoryAccessor, buffer uint64, lengthBytes uint16) (string, error) {
	if buffer == 0 {
		return "", werrors.NewNullPointer("Buffer")
	}
	if lengthBytes == 0 {
		return "", nil
	}
	raw, err := acc.Read(buffer, int(lengthBytes))
	if err != nil {
		return "", err
	}
	return decodeUTF16LE(raw)
}

func decodeUTF16LE(raw []byte) (string, error) {
	decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
