// Package remotestruct is the RemoteStruct engine (§4.3): given a native C
// struct definition and a target pointer width, it materializes a typed
// view over bytes living in another process's address space, dereferencing
// pointers lazily through a MemoryAccessor.
//
// Struct layouts are described with a Go struct carrying `wc:"..."` tags —
// the idiomatic-Go analogue of the ctypes field descriptions
// original_source/windows/winobject.py builds its remote views from — and
// a Descriptor is derived from that tag set via reflection once per
// (type, width) pair and cached.
package remotestruct

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"wincore/domain/bitness"
)

// Kind is a field's logical type, independent of pointer width.
type Kind int

const (
	KindU8 Kind = iota
	KindU16
	KindU32
	KindU64
	KindPtr           // a void*-like field: 4 bytes on a 32-bit target, 8 on 64-bit.
	KindStruct        // a nested struct, described by its own Go type.
	KindUnicodeString // LSA_UNICODE_STRING / UNICODE_STRING: {Length u16, MaximumLength u16, Buffer ptr}.
	KindPad           // fixed-width raw padding, width-independent.
	KindPtrArray       // a fixed-length inline array of pointer-sized slots.
)

// Field is one member of a Descriptor, derived from a struct tag.
type Field struct {
	Name     string
	Kind     Kind
	Nested   reflect.Type // set for KindStruct
	PadBytes int          // set for KindPad
	Count    int          // set for KindPtrArray
}

// Descriptor enumerates a struct's fields in declaration order. It is
// width-independent; offsets are computed on demand by Layout.
type Descriptor struct {
	Name   string
	Fields []Field
}

// FieldLayout is one field's resolved, width-specific placement.
type FieldLayout struct {
	Field
	Offset uintptr
	Size   uintptr
}

// Layout resolves this descriptor's fields to concrete offsets and sizes
// for width W, following the natural-alignment rule a Windows C compiler
// applies: a field aligns to its own size (pointer-kind fields to W's
// pointer size), and the struct's overall size rounds up to its largest
// member's alignment.
func (d *Descriptor) Layout(w bitness.Width) []FieldLayout {
	var out []FieldLayout
	var offset uintptr
	var maxAlign uintptr = 1

	place := func(size, align uintptr) uintptr {
		if align > 1 {
			offset = (offset + align - 1) / align * align
		}
		o := offset
		offset += size
		if align > maxAlign {
			maxAlign = align
		}
		return o
	}

	for _, f := range d.Fields {
		switch f.Kind {
		case KindU8:
			out = append(out, FieldLayout{f, place(1, 1), 1})
		case KindU16:
			out = append(out, FieldLayout{f, place(2, 2), 2})
		case KindU32:
			out = append(out, FieldLayout{f, place(4, 4), 4})
		case KindU64:
			out = append(out, FieldLayout{f, place(8, 8), 8})
		case KindPtr:
			sz := w.Size()
			out = append(out, FieldLayout{f, place(sz, sz), sz})
		case KindPtrArray:
			sz := w.Size()
			total := sz * uintptr(f.Count)
			out = append(out, FieldLayout{f, place(total, sz), total})
		case KindPad:
			out = append(out, FieldLayout{f, place(uintptr(f.PadBytes), 1), uintptr(f.PadBytes)})
		case KindUnicodeString:
			// {Length u16, MaximumLength u16, [pad to ptr align], Buffer ptr},
			// the whole struct aligned to the pointer size.
			ptrSz := w.Size()
			base := place(2, ptrSz)
			_ = place(2, 2)
			if ptrSz > 2 {
				offset = (offset + ptrSz - 1) / ptrSz * ptrSz
			}
			_ = place(ptrSz, ptrSz)
			size := (offset) - base
			out = append(out, FieldLayout{f, base, size})
			if ptrSz > maxAlign {
				maxAlign = ptrSz
			}
		case KindStruct:
			nested := DescriptorFor(f.Nested)
			layout := nested.Layout(w)
			size := nested.sizeFromLayout(layout)
			align := nested.alignFromLayout(layout, w)
			out = append(out, FieldLayout{f, place(size, align), size})
		}
	}

	if maxAlign > 1 {
		offset = (offset + maxAlign - 1) / maxAlign * maxAlign
	}
	return out
}

func (d *Descriptor) sizeFromLayout(layout []FieldLayout) uintptr {
	if len(layout) == 0 {
		return 0
	}
	last := layout[len(layout)-1]
	return last.Offset + last.Size
}

func (d *Descriptor) alignFromLayout(layout []FieldLayout, w bitness.Width) uintptr {
	var maxAlign uintptr = 1
	for _, fl := range layout {
		a := fl.Size
		if fl.Kind == KindPad {
			a = 1
		}
		if fl.Kind == KindPtr || fl.Kind == KindPtrArray || fl.Kind == KindUnicodeString {
			a = w.Size()
		}
		if fl.Kind == KindStruct {
			nested := DescriptorFor(fl.Nested)
			a = nested.alignFromLayout(nested.Layout(w), w)
		}
		if a > maxAlign {
			maxAlign = a
		}
	}
	return maxAlign
}

// Sizeof returns sizeof(Remote<S, W>): the struct's total size on width W,
// including trailing alignment padding. This is the quantity property 2
// (§8) asserts equals the known Windows-ABI size.
func (d *Descriptor) Sizeof(w bitness.Width) uintptr {
	layout := d.Layout(w)
	size := d.sizeFromLayout(layout)
	align := d.alignFromLayout(layout, w)
	if align > 1 {
		size = (size + align - 1) / align * align
	}
	return size
}

var (
	descCacheMu sync.RWMutex
	descCache   = map[reflect.Type]*Descriptor{}
)

// DescriptorFor derives a Descriptor from a Go struct type's `wc:"..."`
// tags, the equivalent of spec §4.3's transform_type_to_remoteW: the
// descriptor itself is width-independent, Layout resolves it per width.
// Results are cached per reflect.Type.
func DescriptorFor(t reflect.Type) *Descriptor {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	descCacheMu.RLock()
	if d, ok := descCache[t]; ok {
		descCacheMu.RUnlock()
		return d
	}
	descCacheMu.RUnlock()

	d := buildDescriptor(t)

	descCacheMu.Lock()
	descCache[t] = d
	descCacheMu.Unlock()
	return d
}

func buildDescriptor(t reflect.Type) *Descriptor {
	d := &Descriptor{Name: t.Name()}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("wc")
		if tag == "" {
			continue
		}
		d.Fields = append(d.Fields, parseField(sf.Name, tag, sf.Type))
	}
	return d
}

func parseField(name, tag string, goType reflect.Type) Field {
	parts := strings.SplitN(tag, ":", 2)
	switch parts[0] {
	case "u8":
		return Field{Name: name, Kind: KindU8}
	case "u16":
		return Field{Name: name, Kind: KindU16}
	case "u32":
		return Field{Name: name, Kind: KindU32}
	case "u64":
		return Field{Name: name, Kind: KindU64}
	case "ptr":
		return Field{Name: name, Kind: KindPtr}
	case "unicode":
		return Field{Name: name, Kind: KindUnicodeString}
	case "struct":
		return Field{Name: name, Kind: KindStruct, Nested: goType}
	case "pad":
		n, _ := strconv.Atoi(parts[1])
		return Field{Name: name, Kind: KindPad, PadBytes: n}
	case "ptrarray":
		n, _ := strconv.Atoi(parts[1])
		return Field{Name: name, Kind: KindPtrArray, Count: n}
	default:
		panic(fmt.Sprintf("remotestruct: unknown tag %q on field %s", tag, name))
	}
}

func fieldLayout(layout []FieldLayout, name string) (FieldLayout, bool) {
	for _, fl := range layout {
		if fl.Name == name {
			return fl, true
		}
	}
	return FieldLayout{}, false
}
