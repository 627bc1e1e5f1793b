// Package manager holds the process-wide binding to the host's memory and
// reference manager function table.
//
// The table is resolved once at load time (statically linked or looked up
// dynamically, outside this package's concern) and installed with Bind.
// After that it is immutable; Current reads it lock-free. Operating before
// Bind yields a not_initialized error rather than a nil dereference.
//
// The package also provides:
//
//   - Trace, a Manager wrapper recording every call, used by lifecycle
//     tests and the lvrun inspector.
//   - Logger/SetLogger, the side channel for cleanup failures. Dispose and
//     unlock errors are never propagated (they occur on unwind paths), so
//     they are reported here instead.
package manager
