package remotestruct

import (
	"encoding/binary"
	"reflect"

	"wincore/application"
	"wincore/domain/bitness"
	"wincore/domain/werrors"
)

// remoteCore is the width/accessor/address triple shared by every
// Remote[S], factored out so the generic field-reading helpers below don't
// need a type parameter of their own.
type remoteCore struct {
	addr  uint64
	width bitness.Width
	acc   application.MemoryAccessor
	desc  *Descriptor
}

// Remote is a typed view over a native struct S living at Addr in the
// address space application.MemoryAccessor reads from, laid out for
// Width. This is spec §4.3's Remote<S, W>.
type Remote[S any] struct {
	remoteCore
}

// NewRemote constructs a view of S at addr, using acc's target width.
func NewRemote[S any](addr uint64, acc application.MemoryAccessor) *Remote[S] {
	var zero S
	return &Remote[S]{remoteCore{
		addr:  addr,
		width: acc.TargetWidth(),
		acc:   acc,
		desc:  DescriptorFor(reflect.TypeOf(zero)),
	}}
}

// Addr returns the remote address this view reads from.
func (r *Remote[S]) Addr() uint64 { return r.addr }

// Sizeof returns this view's struct size on its target width.
func (r *Remote[S]) Sizeof() uintptr { return r.desc.Sizeof(r.width) }

func (c *remoteCore) field(name string) (FieldLayout, error) {
	fl, ok := fieldLayout(c.desc.Layout(c.width), name)
	if !ok {
		return FieldLayout{}, werrors.NewUnsupported("remotestruct: no such field " + name)
	}
	return fl, nil
}

func (c *remoteCore) readAt(offset uintptr, n int) ([]byte, error) {
	return c.acc.Read(c.addr+uint64(offset), n)
}

// Uint8 reads a KindU8 field.
func (c *remoteCore) Uint8(name string) (uint8, error) {
	fl, err := c.field(name)
	if err != nil {
		return 0, err
	}
	b, err := c.readAt(fl.Offset, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16 reads a KindU16 field.
func (c *remoteCore) Uint16(name string) (uint16, error) {
	fl, err := c.field(name)
	if err != nil {
		return 0, err
	}
	b, err := c.readAt(fl.Offset, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Uint32 reads a KindU32 field.
func (c *remoteCore) Uint32(name string) (uint32, error) {
	fl, err := c.field(name)
	if err != nil {
		return 0, err
	}
	b, err := c.readAt(fl.Offset, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Uint64 reads a KindU64 field.
func (c *remoteCore) Uint64(name string) (uint64, error) {
	fl, err := c.field(name)
	if err != nil {
		return 0, err
	}
	b, err := c.readAt(fl.Offset, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Ptr reads a KindPtr field, widened to uint64 regardless of target width.
func (c *remoteCore) Ptr(name string) (uint64, error) {
	fl, err := c.field(name)
	if err != nil {
		return 0, err
	}
	b, err := c.readAt(fl.Offset, int(fl.Size))
	if err != nil {
		return 0, err
	}
	if fl.Size == 4 {
		return uint64(binary.LittleEndian.Uint32(b)), nil
	}
	return binary.LittleEndian.Uint64(b), nil
}

// PtrAt reads one slot of a KindPtrArray field.
func (c *remoteCore) PtrAt(name string, index int) (uint64, error) {
	fl, err := c.field(name)
	if err != nil {
		return 0, err
	}
	ptrSz := c.width.Size()
	if index < 0 || uintptr(index) >= fl.Size/ptrSz {
		return 0, werrors.NewUnsupported("remotestruct: ptrarray index out of range")
	}
	b, err := c.readAt(fl.Offset+uintptr(index)*ptrSz, int(ptrSz))
	if err != nil {
		return 0, err
	}
	if ptrSz == 4 {
		return uint64(binary.LittleEndian.Uint32(b)), nil
	}
	return binary.LittleEndian.Uint64(b), nil
}

// UnicodeString reads a KindUnicodeString field's three members, following
// overlay.go's WinUnicodeString layout.
func (c *remoteCore) UnicodeString(name string) (WinUnicodeString, error) {
	fl, err := c.field(name)
	if err != nil {
		return WinUnicodeString{}, err
	}
	ptrSz := c.width.Size()
	raw, err := c.readAt(fl.Offset, int(fl.Size))
	if err != nil {
		return WinUnicodeString{}, err
	}
	length := binary.LittleEndian.Uint16(raw[0:2])
	maxLength := binary.LittleEndian.Uint16(raw[2:4])
	bufOff := fl.Size - ptrSz
	var buffer uint64
	if ptrSz == 4 {
		buffer = uint64(binary.LittleEndian.Uint32(raw[bufOff:]))
	} else {
		buffer = binary.LittleEndian.Uint64(raw[bufOff:])
	}
	return WinUnicodeString{Length: length, MaximumLength: maxLength, Buffer: buffer}, nil
}

// structField constructs a Remote[T] view over an inline (non-pointer)
// nested struct field.
func structField[T any](r *remoteCore, name string) (*Remote[T], error) {
	fl, err := r.field(name)
	if err != nil {
		return nil, err
	}
	if fl.Kind != KindStruct {
		return nil, werrors.NewUnsupported("remotestruct: field " + name + " is not a struct")
	}
	return NewRemote[T](r.addr+uint64(fl.Offset), r.acc), nil
}

// pointerField follows a KindPtr field and constructs a Remote[T] view at
// the pointed-to address. A null pointer is reported as werrors.NullPointer
// rather than silently yielding a zero-valued view, per §4.3/§7.
func pointerField[T any](r *remoteCore, name string) (*Remote[T], error) {
	addr, err := r.Ptr(name)
	if err != nil {
		return nil, err
	}
	if addr == 0 {
		return nil, werrors.NewNullPointer(name)
	}
	return NewRemote[T](addr, r.acc), nil
}
