package simhost

import (
	"unsafe"

	"go.uber.org/zap"

	lvruntime "github.com/lvkit/lv-runtime"
)

// refEntry is one slot of the refnum table. Cookies are slot index plus
// one, so the zero cookie never matches an entry; freed slots are reused
// through refFree.
type refEntry struct {
	payload unsafe.Pointer
	scratch []byte
	kind    uint32
	locks   int
	valid   bool
}

// refScratchSize backs references created with a nil payload descriptor,
// so a lock always yields a usable pointer.
const refScratchSize = 16

func (m *Manager) NewRef(payload unsafe.Pointer, kind uint32) (lvruntime.MagicCookie, lvruntime.MgErr) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNewRef {
		m.failNewRef = false
		return 0, lvruntime.MFullErr
	}

	e := refEntry{payload: payload, kind: kind, valid: true}
	if payload == nil {
		e.scratch = make([]byte, refScratchSize)
		e.payload = unsafe.Pointer(&e.scratch[0])
	}

	var cookie lvruntime.MagicCookie
	if n := len(m.refFree); n > 0 {
		cookie = m.refFree[n-1]
		m.refFree = m.refFree[:n-1]
		m.refs[cookie-1] = e
	} else {
		m.refs = append(m.refs, e)
		cookie = lvruntime.MagicCookie(len(m.refs))
	}
	m.log.Debug("new ref", zap.Uint32("cookie", uint32(cookie)), zap.Uint32("kind", kind))
	return cookie, lvruntime.MgNoErr
}

func (m *Manager) LockRef(c lvruntime.MagicCookie) (unsafe.Pointer, lvruntime.MgErr) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failLock {
		m.failLock = false
		return nil, lvruntime.MgArgErr
	}

	e := m.entry(c)
	if e == nil {
		return nil, lvruntime.MgArgErr
	}
	e.locks++
	return e.payload, lvruntime.MgNoErr
}

func (m *Manager) UnlockRef(c lvruntime.MagicCookie) lvruntime.MgErr {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(c)
	if e == nil || e.locks == 0 {
		return lvruntime.MgArgErr
	}
	e.locks--
	return lvruntime.MgNoErr
}

func (m *Manager) DisposeRef(c lvruntime.MagicCookie) lvruntime.MgErr {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(c)
	if e == nil {
		return lvruntime.MgArgErr
	}
	*e = refEntry{}
	m.refFree = append(m.refFree, c)
	m.log.Debug("ref disposed", zap.Uint32("cookie", uint32(c)))
	return lvruntime.MgNoErr
}

// Invalidate kills a reference host-side without going through the
// wrapper, the way host code invalidates a resource behind the plugin's
// back. Subsequent LockRef calls report mgArgErr.
func (m *Manager) Invalidate(c lvruntime.MagicCookie) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e := m.entry(c); e != nil {
		e.valid = false
	}
}

// RefLocks returns the current lock count of a reference, for tests.
func (m *Manager) RefLocks(c lvruntime.MagicCookie) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e := m.entry(c); e != nil {
		return e.locks
	}
	return 0
}

// entry resolves a cookie to its live table slot. Callers hold m.mu.
func (m *Manager) entry(c lvruntime.MagicCookie) *refEntry {
	if c == 0 || int(c) > len(m.refs) {
		return nil
	}
	e := &m.refs[c-1]
	if !e.valid {
		return nil
	}
	return e
}
