package memory

import (
	"unsafe"
)

// LockedHandle is a scoped view of a locked Handle. The view's pointer
// and element count are fixed at lock time and valid until Unlock; the
// parent handle rejects resize, detach and double-lock while the view is
// live. None of the view's operations can fail: validity was established
// when the lock was taken.
type LockedHandle[T any] struct {
	h        *Handle[T]
	ptr      unsafe.Pointer
	n        int
	released bool
}

// Slice returns the locked elements. The slice aliases host-owned memory
// and must not escape the view's lifetime.
func (v *LockedHandle[T]) Slice() []T {
	v.check()
	if v.n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(v.ptr), v.n)
}

// Ptr returns the block's data pointer. Valid until Unlock.
func (v *LockedHandle[T]) Ptr() unsafe.Pointer {
	v.check()
	return v.ptr
}

// Len returns the element count fixed at lock time.
func (v *LockedHandle[T]) Len() int {
	return v.n
}

// Unlock releases the view and re-enables mutating operations on the
// parent handle. Idempotent; runs on every exit path via defer.
func (v *LockedHandle[T]) Unlock() {
	if v.released {
		return
	}
	v.released = true
	v.ptr = nil
	if v.h != nil {
		v.h.locked = false
	}
}

func (v *LockedHandle[T]) check() {
	if v.released {
		panic("memory: use of LockedHandle after Unlock")
	}
}
