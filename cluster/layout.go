package cluster

import "unsafe"

// HostPacked reports whether the active build uses the host's packed
// record mode. Hosts pack cluster fields with 1-byte alignment in their
// 32-bit builds and natural alignment in 64-bit builds, keyed to the
// pointer width.
func HostPacked() bool {
	return unsafe.Sizeof(uintptr(0)) == 4
}

// Layout accumulates field offsets for a host record under one packing
// rule. Offsets are fixed by the host's documented packing for the
// build's pointer width; this computes the same rule so accessors and
// host agree byte for byte.
type Layout struct {
	packed bool
	size   uintptr
	align  uintptr
}

// NewLayout starts a layout. packed selects 1-byte packing; otherwise
// fields are placed at their natural alignment.
func NewLayout(packed bool) *Layout {
	return &Layout{packed: packed, align: 1}
}

// NewHostLayout starts a layout using the active build's packing mode.
func NewHostLayout() *Layout {
	return NewLayout(HostPacked())
}

// Place appends a field of the given size and natural alignment and
// returns its byte offset.
func (l *Layout) Place(size, align uintptr) uintptr {
	if align == 0 {
		align = 1
	}
	if l.packed {
		align = 1
	}
	off := alignUp(l.size, align)
	l.size = off + size
	if align > l.align {
		l.align = align
	}
	return off
}

// Size returns the record's total byte size, padded to the record's own
// alignment in natural mode.
func (l *Layout) Size() uintptr {
	return alignUp(l.size, l.align)
}

// Append places a field of type T and returns its bound accessor.
func Append[T any](l *Layout) Field[T] {
	var zero T
	return FieldAt[T](l.Place(unsafe.Sizeof(zero), unsafe.Alignof(zero)))
}

// alignUp rounds n up to the next multiple of align (a power of two).
func alignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}
