// Package refnum wraps host-issued reference tokens (refnums) in owning
// Ref[T] values with scoped lock guards.
//
// A refnum's payload lives entirely on the host side: the host creates
// it, may invalidate it at any time, and interprets its contents. The
// wrapper maps constructor and Close 1:1 onto the host's create and
// dispose calls, and makes "must lock before dereferencing" structurally
// unavoidable: the payload pointer is only reachable through a LockedRef
// obtained from Lock.
//
//	ref, err := refnum.New[int32](mgr, payload, kind)
//	if err != nil {
//	    return err
//	}
//	defer ref.Close()
//
//	pin, err := ref.Lock()
//	if err != nil {
//	    return err // host invalidated the reference
//	}
//	defer pin.Unlock()
//	pin.SetValue(7)
//
// After Close the wrapper is terminal: Lock is rejected at this layer
// with use_after_dispose rather than forwarded, since the manager may
// not detect use of a token it already freed.
package refnum
