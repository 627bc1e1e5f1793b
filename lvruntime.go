package lvruntime

import "unsafe"

// UHandle is a raw memory-manager handle: an opaque token for one
// host-owned, resizable, relocatable block. The zero value is invalid.
type UHandle uintptr

// MagicCookie is a raw refnum token issued by the host's reference
// manager. The zero value is invalid.
type MagicCookie uint32

// MgErr is a manager status code. Zero means success; any other value is
// a host-defined failure code.
type MgErr int32

// Manager status codes the host defines. MgNoErr is success; the others
// are the failure codes this layer needs to name.
const (
	MgNoErr  MgErr = 0
	MgArgErr MgErr = 1  // bad argument: unknown handle, refnum, or size
	MFullErr MgErr = 2  // memory full: allocation or resize refused
	BogusErr MgErr = 42 // generic error
)

// OK reports whether the status is success.
func (e MgErr) OK() bool { return e == MgNoErr }

// Manager is the resolved host function table: four memory primitives and
// four reference primitives. Implementations hold no handle metadata of
// their own; every size or pointer query goes to the host.
//
// A Manager is resolved once (statically linked or looked up at load
// time) and never re-resolved. The manager package holds the process-wide
// binding; the simhost package provides an in-process implementation for
// tests and tooling.
type Manager interface {
	// NewHandle allocates a relocatable block of the given byte size.
	NewHandle(size uintptr) (UHandle, MgErr)

	// SetHandleSize resizes a block. On failure the old block is intact.
	// The block may relocate on success; its prefix is preserved.
	SetHandleSize(h UHandle, size uintptr) MgErr

	// HandleSize returns the current byte size of a block, or 0 for an
	// unknown handle.
	HandleSize(h UHandle) uintptr

	// HandlePointer dereferences the handle's master pointer, yielding
	// the block's current data pointer. The pointer is invalidated when
	// this handle is resized or disposed; callers must not retain it
	// across such calls.
	HandlePointer(h UHandle) unsafe.Pointer

	// DisposeHandle frees a block.
	DisposeHandle(h UHandle) MgErr

	// MoveBlock copies n bytes between raw pointers. Ranges may overlap.
	MoveBlock(src, dst unsafe.Pointer, n uintptr)

	// NewRef creates a reference to a host-interpreted payload. The
	// payload pointer and kind are opaque to this layer.
	NewRef(payload unsafe.Pointer, kind uint32) (MagicCookie, MgErr)

	// LockRef pins the referenced payload and returns its pointer. Fails
	// if the reference is invalid or was invalidated host-side.
	LockRef(c MagicCookie) (unsafe.Pointer, MgErr)

	// UnlockRef releases one LockRef pin.
	UnlockRef(c MagicCookie) MgErr

	// DisposeRef destroys the reference.
	DisposeRef(c MagicCookie) MgErr
}
