package manager

import (
	"sync"
	"unsafe"

	lvruntime "github.com/lvkit/lv-runtime"
)

// Op names a manager primitive in a trace record.
type Op string

const (
	OpNewHandle     Op = "NewHandle"
	OpSetHandleSize Op = "SetHandleSize"
	OpHandleSize    Op = "HandleSize"
	OpHandlePointer Op = "HandlePointer"
	OpDisposeHandle Op = "DisposeHandle"
	OpMoveBlock     Op = "MoveBlock"
	OpNewRef        Op = "NewRef"
	OpLockRef       Op = "LockRef"
	OpUnlockRef     Op = "UnlockRef"
	OpDisposeRef    Op = "DisposeRef"
)

// Call is one recorded manager invocation.
type Call struct {
	Op     Op
	Handle lvruntime.UHandle
	Cookie lvruntime.MagicCookie
	Size   uintptr
	Status lvruntime.MgErr
}

// Trace wraps a Manager and records every call made through it. It is
// used by tests asserting lifecycle properties (dispose exactly once,
// unlock paired with lock) and by the lvrun inspector.
type Trace struct {
	inner lvruntime.Manager
	mu    sync.Mutex
	calls []Call
}

// NewTrace wraps inner with call recording.
func NewTrace(inner lvruntime.Manager) *Trace {
	return &Trace{inner: inner}
}

func (t *Trace) record(c Call) {
	t.mu.Lock()
	t.calls = append(t.calls, c)
	t.mu.Unlock()
}

// Calls returns a copy of the recorded calls in issue order.
func (t *Trace) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Call, len(t.calls))
	copy(out, t.calls)
	return out
}

// Count returns how many recorded calls match op.
func (t *Trace) Count(op Op) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, c := range t.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Reset discards the recorded calls.
func (t *Trace) Reset() {
	t.mu.Lock()
	t.calls = nil
	t.mu.Unlock()
}

func (t *Trace) NewHandle(size uintptr) (lvruntime.UHandle, lvruntime.MgErr) {
	h, st := t.inner.NewHandle(size)
	t.record(Call{Op: OpNewHandle, Handle: h, Size: size, Status: st})
	return h, st
}

func (t *Trace) SetHandleSize(h lvruntime.UHandle, size uintptr) lvruntime.MgErr {
	st := t.inner.SetHandleSize(h, size)
	t.record(Call{Op: OpSetHandleSize, Handle: h, Size: size, Status: st})
	return st
}

func (t *Trace) HandleSize(h lvruntime.UHandle) uintptr {
	size := t.inner.HandleSize(h)
	t.record(Call{Op: OpHandleSize, Handle: h, Size: size})
	return size
}

func (t *Trace) HandlePointer(h lvruntime.UHandle) unsafe.Pointer {
	p := t.inner.HandlePointer(h)
	t.record(Call{Op: OpHandlePointer, Handle: h})
	return p
}

func (t *Trace) DisposeHandle(h lvruntime.UHandle) lvruntime.MgErr {
	st := t.inner.DisposeHandle(h)
	t.record(Call{Op: OpDisposeHandle, Handle: h, Status: st})
	return st
}

func (t *Trace) MoveBlock(src, dst unsafe.Pointer, n uintptr) {
	t.inner.MoveBlock(src, dst, n)
	t.record(Call{Op: OpMoveBlock, Size: n})
}

func (t *Trace) NewRef(payload unsafe.Pointer, kind uint32) (lvruntime.MagicCookie, lvruntime.MgErr) {
	c, st := t.inner.NewRef(payload, kind)
	t.record(Call{Op: OpNewRef, Cookie: c, Status: st})
	return c, st
}

func (t *Trace) LockRef(c lvruntime.MagicCookie) (unsafe.Pointer, lvruntime.MgErr) {
	p, st := t.inner.LockRef(c)
	t.record(Call{Op: OpLockRef, Cookie: c, Status: st})
	return p, st
}

func (t *Trace) UnlockRef(c lvruntime.MagicCookie) lvruntime.MgErr {
	st := t.inner.UnlockRef(c)
	t.record(Call{Op: OpUnlockRef, Cookie: c, Status: st})
	return st
}

func (t *Trace) DisposeRef(c lvruntime.MagicCookie) lvruntime.MgErr {
	st := t.inner.DisposeRef(c)
	t.record(Call{Op: OpDisposeRef, Cookie: c, Status: st})
	return st
}
