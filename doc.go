// Package lvruntime provides a safe Go abstraction layer over a host
// environment's handle-based memory manager and refnum reference manager,
// for native code loaded as a plugin by that host.
//
// # Architecture Overview
//
// The library is organized into packages with distinct responsibilities:
//
//	lvruntime/       Root package with the Manager interface and raw token types
//	├── manager/     Process-wide manager binding, call tracing, side-channel logging
//	├── memory/      Handle[T] owning wrapper and LockedHandle[T] scoped views
//	├── refnum/      Ref[T] RAII wrapper over host refnums with scoped locks
//	├── cluster/     Unaligned record-field accessors and packed-layout computation
//	├── types/       Host data types: Bool, status codes, LStr strings, error clusters
//	├── boundary/    Entry-point wrapper translating Go errors into error clusters
//	├── errors/      Structured error types carrying raw manager status codes
//	├── simhost/     Simulated host manager over a wazero linear memory
//	└── cmd/lvrun/   Demo and interactive inspector for the simulated host
//
// # Quick Start
//
// Allocate a host-managed buffer, lock it, and write through the view:
//
//	h, err := memory.Allocate[uint8](mgr, 8)
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//
//	view, err := h.Lock()
//	if err != nil {
//	    return err
//	}
//	copy(view.Slice(), data)
//	view.Unlock()
//
// # Ownership Model
//
// Exactly one Handle or Ref wraps a given raw token at a time. Wrappers
// dispose their token on Close unless ownership was transferred back to
// the host with Detach. Raw pointers are never stored: every
// pointer-yielding operation is a scoped lock, because the host may move
// blocks between calls.
//
// # Unaligned Access
//
// Hosts with 1-byte record packing place fields at offsets that violate
// natural alignment, so record fields are read and written through
// cluster.Field copy-based accessors rather than typed pointers. The same
// accessors are used on naturally-aligned builds to keep one code path.
//
// # Threading
//
// Handle and Ref values are single-owner; share them across goroutines
// only by transferring ownership or with external synchronization. The
// process-wide manager binding is write-once at init and lock-free to
// read thereafter.
package lvruntime
