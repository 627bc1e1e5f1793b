// Package errors provides structured error types for the lv-runtime library.
//
// Errors are categorized by Phase (which wrapper operation failed) and Kind
// (error category). Failures that originate in a host manager call carry the
// manager's raw status code for diagnostics.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLock, errors.KindLockFailed).
//		Status(status).
//		Detail("reference invalidated by host").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.AllocationFailed(status, size)
//	err := errors.UseAfterDispose(errors.PhaseLock)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
