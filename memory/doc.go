// Package memory wraps the host manager's relocatable memory handles in
// owning, type-parameterized containers.
//
// A Handle[T] owns one manager-allocated block of T elements. Because the
// manager may move the block on any resize, the wrapper never stores a
// raw pointer: access goes through a scoped LockedHandle view obtained
// from Lock and released with Unlock.
//
//	h, err := memory.Allocate[int32](mgr, 16)
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//
//	view, err := h.Lock()
//	if err != nil {
//	    return err
//	}
//	defer view.Unlock()
//	view.Slice()[0] = 42
//
// Ownership crosses the host boundary in both directions: Wrap adopts a
// raw handle the host passed in, Detach releases a handle the host will
// keep. Either way exactly one dispose happens per block, on whichever
// side owns it last.
package memory
