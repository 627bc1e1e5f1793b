package cluster

import "unsafe"

// Field is a zero-state accessor for one record field at a fixed byte
// offset. It holds no memory itself; it describes where a T lives inside
// a record and moves its bytes with copies, never through a typed
// pointer, so the offset may violate T's natural alignment.
//
// T must be a fixed-size type whose bit pattern is fully defined by its
// bytes (no pointers, no padding-dependent invariants): it is read by
// copy, not by reference.
type Field[T any] struct {
	off uintptr
}

// FieldAt binds a field accessor to a byte offset inside a record.
func FieldAt[T any](off uintptr) Field[T] {
	return Field[T]{off: off}
}

// Offset returns the field's byte offset.
func (f Field[T]) Offset() uintptr {
	return f.off
}

// Read copies the field's bytes out of the record at base into a
// properly aligned local value. Total for any valid base; base needs no
// alignment beyond 1 byte.
func (f Field[T]) Read(base unsafe.Pointer) T {
	var v T
	n := unsafe.Sizeof(v)
	if n == 0 {
		return v
	}
	dst := unsafe.Slice((*byte)(unsafe.Pointer(&v)), n)
	src := unsafe.Slice((*byte)(unsafe.Add(base, f.off)), n)
	copy(dst, src)
	return v
}

// Write copies v's bytes into the record at base, byte for byte, with no
// alignment requirement on the destination.
func (f Field[T]) Write(base unsafe.Pointer, v T) {
	n := unsafe.Sizeof(v)
	if n == 0 {
		return
	}
	dst := unsafe.Slice((*byte)(unsafe.Add(base, f.off)), n)
	src := unsafe.Slice((*byte)(unsafe.Pointer(&v)), n)
	copy(dst, src)
}
