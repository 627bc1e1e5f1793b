package refnum

import (
	"unsafe"

	"go.uber.org/zap"

	lvruntime "github.com/lvkit/lv-runtime"
	"github.com/lvkit/lv-runtime/cluster"
	"github.com/lvkit/lv-runtime/errors"
	"github.com/lvkit/lv-runtime/manager"
)

// Ref is an owning wrapper around one host refnum. The payload behind the
// refnum is created, interpreted and invalidated entirely by the host;
// this layer only locks it to obtain a pointer the manager hands back,
// and disposes the token on Close.
//
// A Ref owns its token exclusively, mirroring memory.Handle. Unlike a
// handle lock, a refnum lock can fail at any time: host-side code may
// have invalidated the reference between creation and use.
type Ref[T any] struct {
	m        lvruntime.Manager
	cookie   lvruntime.MagicCookie
	locks    int
	disposed bool
}

// New asks the manager for a new reference over the given payload
// descriptor. kind is the host's payload type tag; both are opaque here.
func New[T any](m lvruntime.Manager, payload unsafe.Pointer, kind uint32) (*Ref[T], error) {
	cookie, st := m.NewRef(payload, kind)
	if !st.OK() {
		return nil, errors.RefCreationFailed(st)
	}
	if cookie == 0 {
		return nil, errors.RefCreationFailed(lvruntime.MgNoErr)
	}
	return &Ref[T]{m: m, cookie: cookie}, nil
}

// Wrap takes ownership of a refnum received from the host. The caller
// asserts no other wrapper owns it; the Ref disposes it on Close.
func Wrap[T any](m lvruntime.Manager, cookie lvruntime.MagicCookie) *Ref[T] {
	return &Ref[T]{m: m, cookie: cookie}
}

// Cookie returns the raw refnum without transferring ownership.
func (r *Ref[T]) Cookie() lvruntime.MagicCookie {
	return r.cookie
}

// Lock asks the manager to pin the payload and hand back its pointer.
// A disposed wrapper is rejected here with use_after_dispose and never
// reaches the manager: the manager may have reissued the token since.
func (r *Ref[T]) Lock() (*LockedRef[T], error) {
	if r.disposed {
		return nil, errors.UseAfterDispose(errors.PhaseLock)
	}
	if r.cookie == 0 {
		return nil, errors.InvalidRefnum(errors.PhaseLock)
	}
	ptr, st := r.m.LockRef(r.cookie)
	if !st.OK() || ptr == nil {
		return nil, errors.LockFailed(st)
	}
	r.locks++
	return &LockedRef[T]{r: r, ptr: ptr}, nil
}

// Detach consumes the wrapper without disposing the reference,
// transferring ownership back to the host.
func (r *Ref[T]) Detach() (lvruntime.MagicCookie, error) {
	if r.disposed {
		return 0, errors.UseAfterDispose(errors.PhaseDispose)
	}
	cookie := r.cookie
	r.cookie = 0
	r.disposed = true
	return cookie, nil
}

// Close disposes the reference unless it was detached. Idempotent.
// Dispose failures are reported through the manager's side-channel
// logger and swallowed; Close runs on cleanup paths where propagating
// would mask the primary failure.
func (r *Ref[T]) Close() {
	if r.disposed {
		return
	}
	r.disposed = true
	if r.cookie == 0 {
		return
	}
	if r.locks > 0 {
		manager.Logger().Warn("refnum disposed with outstanding locks",
			zap.Uint32("cookie", uint32(r.cookie)),
			zap.Int("locks", r.locks))
	}
	if st := r.m.DisposeRef(r.cookie); !st.OK() {
		manager.Logger().Warn("refnum dispose failed",
			zap.Uint32("cookie", uint32(r.cookie)),
			zap.Int32("mgerr", int32(st)))
	}
	r.cookie = 0
}

// LockedRef is a scoped pin of a reference's payload. The pointer is
// valid until Unlock. The payload's layout is the host's business; Value
// and SetValue copy T's bytes at the payload base without assuming
// alignment, for payloads the caller knows to start with a T.
type LockedRef[T any] struct {
	r        *Ref[T]
	ptr      unsafe.Pointer
	released bool
}

// Ptr returns the pinned payload pointer. Valid until Unlock.
func (v *LockedRef[T]) Ptr() unsafe.Pointer {
	v.check()
	return v.ptr
}

// Value copies a T out of the payload base.
func (v *LockedRef[T]) Value() T {
	v.check()
	return cluster.FieldAt[T](0).Read(v.ptr)
}

// SetValue copies a T into the payload base.
func (v *LockedRef[T]) SetValue(val T) {
	v.check()
	cluster.FieldAt[T](0).Write(v.ptr, val)
}

// Unlock releases the pin with exactly one UnlockRef call. Idempotent;
// unlock failures go to the side-channel logger, never to the caller.
func (v *LockedRef[T]) Unlock() {
	if v.released {
		return
	}
	v.released = true
	v.ptr = nil
	if v.r == nil {
		return
	}
	if v.r.locks > 0 {
		v.r.locks--
	}
	if v.r.disposed {
		return
	}
	if st := v.r.m.UnlockRef(v.r.cookie); !st.OK() {
		manager.Logger().Warn("refnum unlock failed",
			zap.Uint32("cookie", uint32(v.r.cookie)),
			zap.Int32("mgerr", int32(st)))
	}
}

func (v *LockedRef[T]) check() {
	if v.released {
		panic("refnum: use of LockedRef after Unlock")
	}
}
