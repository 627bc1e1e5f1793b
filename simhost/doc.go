// Package simhost is a simulated host manager: a complete in-process
// implementation of lvruntime.Manager for tests, examples and the lvrun
// inspector, standing in for the real host the way a vendor test library
// would.
//
// Blocks are carved out of the linear memory of a wazero module with a
// free-list allocator, so the properties that make the real manager
// dangerous hold here too:
//
//   - the backing store is owned by someone else (the wazero runtime)
//   - a resize can move a block to a new offset, preserving its prefix,
//     so a pointer held across a resize of that block genuinely dangles
//
// The linear memory itself is allocated at its maximum capacity up
// front and never moves, matching the real host: only a resize of a
// block relocates that block, never activity on its neighbors.
//
// References keep their payload pointer in a host-side table with lock
// counting; Invalidate kills one behind the wrapper's back to exercise
// the lock-failure path, and the FailNext* methods inject allocation and
// lock failures deterministically.
package simhost
