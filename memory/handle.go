package memory

import (
	"unsafe"

	"go.uber.org/zap"

	lvruntime "github.com/lvkit/lv-runtime"
	"github.com/lvkit/lv-runtime/errors"
	"github.com/lvkit/lv-runtime/manager"
)

// Handle is an owning wrapper around one manager-allocated, resizable,
// relocatable block of T elements. Exactly one Handle wraps a given raw
// handle at a time; duplicating the raw value in a second wrapper is a
// double-free hazard.
//
// T must be a fixed-size type whose bit pattern is fully defined by its
// bytes: no pointers, no maps, no slices. The block lives outside the Go
// heap, so the collector never sees anything stored in it.
//
// The wrapper never caches the block's pointer or size; the manager may
// move or resize the block between calls, so both are re-queried on every
// operation.
type Handle[T any] struct {
	m      lvruntime.Manager
	raw    lvruntime.UHandle
	locked bool
	closed bool
}

func elemSize[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

// Allocate requests a block for n elements of T from the manager.
func Allocate[T any](m lvruntime.Manager, n int) (*Handle[T], error) {
	size := uintptr(n) * elemSize[T]()
	raw, st := m.NewHandle(size)
	if !st.OK() {
		return nil, errors.AllocationFailed(st, size)
	}
	if raw == 0 {
		return nil, errors.AllocationFailed(lvruntime.MgNoErr, size)
	}
	return &Handle[T]{m: m, raw: raw}, nil
}

// Wrap takes ownership of a raw handle received from the host.
//
// The caller asserts that raw was produced by a compatible manager call
// for elements of T and that no other wrapper owns it. The returned
// Handle disposes it on Close.
func Wrap[T any](m lvruntime.Manager, raw lvruntime.UHandle) *Handle[T] {
	return &Handle[T]{m: m, raw: raw}
}

// Raw returns the wrapped raw handle without transferring ownership.
func (h *Handle[T]) Raw() lvruntime.UHandle {
	return h.raw
}

// Len returns the block's current element count, re-queried from the
// manager on every call. A closed or nil handle has length 0.
func (h *Handle[T]) Len() int {
	if h.closed || h.raw == 0 {
		return 0
	}
	es := elemSize[T]()
	if es == 0 {
		return 0
	}
	return int(h.m.HandleSize(h.raw) / es)
}

// Resize asks the manager for space for n elements. On failure the
// handle still wraps its previous, valid block. Resize is rejected while
// a locked view is outstanding, since it could move the block under the
// view's pointer.
func (h *Handle[T]) Resize(n int) error {
	if h.closed {
		return errors.UseAfterDispose(errors.PhaseResize)
	}
	if h.locked {
		return errors.HandleLocked(errors.PhaseResize)
	}
	if h.raw == 0 {
		return errors.InvalidHandle(errors.PhaseResize)
	}
	size := uintptr(n) * elemSize[T]()
	if st := h.m.SetHandleSize(h.raw, size); !st.OK() {
		return errors.ResizeFailed(st, size)
	}
	return nil
}

// Lock pins the handle and returns a view of its elements. The view's
// pointer is stable until Unlock because every operation that could move
// the block is rejected while the lock is held. A nil raw handle is
// rejected here, before any dereference.
func (h *Handle[T]) Lock() (*LockedHandle[T], error) {
	if h.closed {
		return nil, errors.UseAfterDispose(errors.PhaseLock)
	}
	if h.locked {
		return nil, errors.HandleLocked(errors.PhaseLock)
	}
	if h.raw == 0 {
		return nil, errors.InvalidHandle(errors.PhaseLock)
	}
	n := h.Len()
	ptr := h.m.HandlePointer(h.raw)
	if ptr == nil && n > 0 {
		return nil, errors.InvalidHandle(errors.PhaseLock)
	}
	h.locked = true
	return &LockedHandle[T]{h: h, ptr: ptr, n: n}, nil
}

// Detach consumes the wrapper without disposing the block, transferring
// ownership back to the host. Used when returning a result the host will
// own. The wrapper is dead afterwards.
func (h *Handle[T]) Detach() (lvruntime.UHandle, error) {
	if h.closed {
		return 0, errors.UseAfterDispose(errors.PhaseDispose)
	}
	if h.locked {
		return 0, errors.HandleLocked(errors.PhaseDispose)
	}
	raw := h.raw
	h.raw = 0
	h.closed = true
	return raw, nil
}

// Close disposes the block via the manager unless the handle was
// detached. It is idempotent. Dispose failures cannot be acted on by the
// caller (Close runs on cleanup paths), so they are reported through the
// manager's side-channel logger and otherwise swallowed.
func (h *Handle[T]) Close() {
	if h.closed {
		return
	}
	h.closed = true
	h.locked = false
	if h.raw == 0 {
		return
	}
	if st := h.m.DisposeHandle(h.raw); !st.OK() {
		manager.Logger().Warn("handle dispose failed",
			zap.Uintptr("handle", uintptr(h.raw)),
			zap.Int32("mgerr", int32(st)))
	}
	h.raw = 0
}
