package errors

import (
	"fmt"
	"strconv"
	"strings"

	lvruntime "github.com/lvkit/lv-runtime"
)

// Phase indicates which wrapper operation the error occurred in
type Phase string

const (
	PhaseAlloc    Phase = "alloc"    // handle allocation
	PhaseResize   Phase = "resize"   // handle resize
	PhaseLock     Phase = "lock"     // handle or refnum lock
	PhaseRef      Phase = "ref"      // refnum creation
	PhaseDispose  Phase = "dispose"  // handle or refnum disposal
	PhaseBoundary Phase = "boundary" // host entry point
	PhaseLayout   Phase = "layout"   // record layout computation
)

// Kind categorizes the error
type Kind string

const (
	KindAllocationFailed  Kind = "allocation_failed"
	KindResizeFailed      Kind = "resize_failed"
	KindInvalidHandle     Kind = "invalid_handle"
	KindInvalidRefnum     Kind = "invalid_refnum"
	KindRefCreationFailed Kind = "ref_creation_failed"
	KindLockFailed        Kind = "lock_failed"
	KindUseAfterDispose   Kind = "use_after_dispose"
	KindNotInitialized    Kind = "not_initialized"
	KindHandleLocked      Kind = "handle_locked"
	KindOutOfRange        Kind = "out_of_range"
)

// Error is the structured error type used throughout the library. Status
// carries the host manager's raw status code when the failure originated
// in a manager call; it is zero for misuse detected at this layer.
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Status lvruntime.MgErr
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Status != lvruntime.MgNoErr {
		b.WriteString(" (mgerr ")
		b.WriteString(strconv.FormatInt(int64(e.Status), 10))
		b.WriteByte(')')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Status sets the raw manager status code
func (b *Builder) Status(status lvruntime.MgErr) *Builder {
	b.err.Status = status
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// AllocationFailed reports a refused handle allocation
func AllocationFailed(status lvruntime.MgErr, size uintptr) *Error {
	return &Error{
		Phase:  PhaseAlloc,
		Kind:   KindAllocationFailed,
		Status: status,
		Detail: fmt.Sprintf("manager refused allocation of %d bytes", size),
	}
}

// ResizeFailed reports a refused handle resize; the old block is intact
func ResizeFailed(status lvruntime.MgErr, size uintptr) *Error {
	return &Error{
		Phase:  PhaseResize,
		Kind:   KindResizeFailed,
		Status: status,
		Detail: fmt.Sprintf("manager refused resize to %d bytes", size),
	}
}

// InvalidHandle reports a nil or unknown raw handle caught before any
// dereference
func InvalidHandle(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidHandle,
		Detail: "nil or unknown raw handle",
	}
}

// InvalidRefnum reports a zero or unknown refnum token
func InvalidRefnum(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidRefnum,
		Detail: "zero or unknown refnum",
	}
}

// RefCreationFailed reports a refused reference creation
func RefCreationFailed(status lvruntime.MgErr) *Error {
	return &Error{
		Phase:  PhaseRef,
		Kind:   KindRefCreationFailed,
		Status: status,
	}
}

// LockFailed reports a refnum lock the host rejected
func LockFailed(status lvruntime.MgErr) *Error {
	return &Error{
		Phase:  PhaseLock,
		Kind:   KindLockFailed,
		Status: status,
		Detail: "host rejected reference lock",
	}
}

// UseAfterDispose reports an operation on an already-disposed wrapper,
// rejected before reaching the manager
func UseAfterDispose(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUseAfterDispose,
		Detail: "wrapper already disposed",
	}
}

// NotInitialized reports use of the process-wide binding before Bind
func NotInitialized(detail string) *Error {
	return &Error{
		Phase:  PhaseBoundary,
		Kind:   KindNotInitialized,
		Detail: detail,
	}
}

// HandleLocked reports a mutating operation attempted while a locked view
// of the handle is outstanding
func HandleLocked(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindHandleLocked,
		Detail: "operation not permitted while handle is locked",
	}
}

// OutOfRange reports an index outside a locked view's element count
func OutOfRange(index, length int) *Error {
	return &Error{
		Phase:  PhaseLock,
		Kind:   KindOutOfRange,
		Detail: fmt.Sprintf("index %d out of range for %d elements", index, length),
	}
}
