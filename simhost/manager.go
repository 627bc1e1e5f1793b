package simhost

import (
	"context"
	"fmt"
	"sync"
	"unsafe"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	lvruntime "github.com/lvkit/lv-runtime"
)

// blockAlign is the allocation granularity inside the linear memory.
// Every block's capacity is a multiple of this, and zero-byte blocks
// still get one unit so their data pointer is dereferenceable.
const blockAlign = 8

// Config controls a simulated host instance.
type Config struct {
	// MaxPages caps the linear memory in 64 KiB pages. 0 means 256 (16 MiB).
	MaxPages uint32

	// Logger receives allocator events at debug level. Nil means no-op.
	Logger *zap.Logger
}

// Manager is an in-process lvruntime.Manager standing in for the real
// host in tests, examples and tooling. Blocks live in the linear memory
// of a wazero module, so the central hazard of the real host is
// reproduced faithfully: the backing store belongs to someone else, a
// resize can move a block, and a pointer held across a resize of that
// block dangles. The buffer itself never moves, so a locked view stays
// valid while unrelated blocks are allocated and resized.
//
// Unlike the wrappers it serves, Manager is internally synchronized:
// hosts accept manager calls from any thread.
type Manager struct {
	mu  sync.Mutex
	rt  wazero.Runtime
	mem api.Memory

	blocks     map[lvruntime.UHandle]*block
	nextHandle lvruntime.UHandle
	free       []span
	brk        uint32

	refs    []refEntry
	refFree []lvruntime.MagicCookie

	failAlloc  bool
	failResize bool
	failNewRef bool
	failLock   bool

	log *zap.Logger
}

type block struct {
	off  uint32
	cap  uint32
	size uintptr
}

type span struct {
	off uint32
	len uint32
}

// New starts a simulated host with default configuration.
func New(ctx context.Context) (*Manager, error) {
	return NewWithConfig(ctx, nil)
}

// NewWithConfig starts a simulated host.
func NewWithConfig(ctx context.Context, cfg *Config) (*Manager, error) {
	maxPages := uint32(256)
	log := zap.NewNop()
	if cfg != nil {
		if cfg.MaxPages > 0 {
			maxPages = cfg.MaxPages
		}
		if cfg.Logger != nil {
			log = cfg.Logger
		}
	}

	// The backing buffer is allocated at its maximum capacity up front:
	// Grow extends the usable size without moving the buffer, so locked
	// views of one block stay valid while other blocks are allocated.
	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().
		WithMemoryCapacityFromMax(true))
	mod, err := rt.Instantiate(ctx, memModule(maxPages))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("instantiate backing module: %w", err)
	}
	mem := mod.ExportedMemory(memoryName)
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("backing module does not export %q", memoryName)
	}

	return &Manager{
		rt:     rt,
		mem:    mem,
		blocks: make(map[lvruntime.UHandle]*block),
		// Leave offset 0 unused so a block offset of 0 never occurs.
		brk:        blockAlign,
		nextHandle: 1,
		log:        log,
	}, nil
}

// Close tears down the wazero runtime backing the linear memory.
func (m *Manager) Close(ctx context.Context) error {
	return m.rt.Close(ctx)
}

// ActiveHandles returns the number of live blocks.
func (m *Manager) ActiveHandles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blocks)
}

// ActiveRefs returns the number of live references.
func (m *Manager) ActiveRefs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.refs {
		if e.valid {
			n++
		}
	}
	return n
}

// FailNextAlloc makes the next NewHandle report mFullErr.
func (m *Manager) FailNextAlloc() { m.mu.Lock(); m.failAlloc = true; m.mu.Unlock() }

// FailNextResize makes the next SetHandleSize report mFullErr, leaving
// the block untouched.
func (m *Manager) FailNextResize() { m.mu.Lock(); m.failResize = true; m.mu.Unlock() }

// FailNextNewRef makes the next NewRef report mFullErr.
func (m *Manager) FailNextNewRef() { m.mu.Lock(); m.failNewRef = true; m.mu.Unlock() }

// FailNextLock makes the next LockRef report mgArgErr, as a host does
// for a reference invalidated behind the caller's back.
func (m *Manager) FailNextLock() { m.mu.Lock(); m.failLock = true; m.mu.Unlock() }

func (m *Manager) NewHandle(size uintptr) (lvruntime.UHandle, lvruntime.MgErr) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAlloc {
		m.failAlloc = false
		return 0, lvruntime.MFullErr
	}

	c, ok := capacityFor(size)
	if !ok {
		return 0, lvruntime.MFullErr
	}
	off, ok := m.allocSpan(c)
	if !ok {
		return 0, lvruntime.MFullErr
	}

	h := m.nextHandle
	m.nextHandle++
	m.blocks[h] = &block{off: off, cap: c, size: size}
	m.log.Debug("new handle",
		zap.Uintptr("handle", uintptr(h)),
		zap.Uint32("offset", off),
		zap.Uintptr("size", size))
	return h, lvruntime.MgNoErr
}

func (m *Manager) SetHandleSize(h lvruntime.UHandle, size uintptr) lvruntime.MgErr {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.blocks[h]
	if !ok {
		return lvruntime.MgArgErr
	}
	if m.failResize {
		m.failResize = false
		return lvruntime.MFullErr
	}

	newCap, ok := capacityFor(size)
	if !ok {
		return lvruntime.MFullErr
	}
	if newCap <= b.cap {
		b.size = size
		return lvruntime.MgNoErr
	}

	// Grow: relocate to a fresh span, preserving the old prefix. The old
	// block stays valid if the new span cannot be found.
	newOff, ok := m.allocSpan(newCap)
	if !ok {
		return lvruntime.MFullErr
	}
	m.copyWithin(b.off, newOff, uint32(b.size))
	m.freeSpan(span{off: b.off, len: b.cap})
	m.log.Debug("handle relocated",
		zap.Uintptr("handle", uintptr(h)),
		zap.Uint32("from", b.off),
		zap.Uint32("to", newOff))
	b.off = newOff
	b.cap = newCap
	b.size = size
	return lvruntime.MgNoErr
}

func (m *Manager) HandleSize(h lvruntime.UHandle) uintptr {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.blocks[h]
	if !ok {
		return 0
	}
	return b.size
}

func (m *Manager) HandlePointer(h lvruntime.UHandle) unsafe.Pointer {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.blocks[h]
	if !ok {
		return nil
	}
	view, ok := m.mem.Read(b.off, b.cap)
	if !ok || len(view) == 0 {
		return nil
	}
	return unsafe.Pointer(&view[0])
}

func (m *Manager) DisposeHandle(h lvruntime.UHandle) lvruntime.MgErr {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.blocks[h]
	if !ok {
		return lvruntime.MgArgErr
	}
	delete(m.blocks, h)
	m.freeSpan(span{off: b.off, len: b.cap})
	m.log.Debug("handle disposed", zap.Uintptr("handle", uintptr(h)))
	return lvruntime.MgNoErr
}

func (m *Manager) MoveBlock(src, dst unsafe.Pointer, n uintptr) {
	if n == 0 || src == nil || dst == nil {
		return
	}
	// copy has memmove semantics, so overlapping ranges are fine.
	copy(unsafe.Slice((*byte)(dst), n), unsafe.Slice((*byte)(src), n))
}

// maxBlockSize is the largest byte size whose aligned capacity still
// fits the 32-bit offsets of the linear memory.
const maxBlockSize = ^uint32(0) &^ (blockAlign - 1)

// capacityFor rounds a requested byte size up to the allocation
// granularity, giving zero-byte blocks a dereferenceable unit. Sizes
// beyond the linear memory's address range are refused.
func capacityFor(size uintptr) (uint32, bool) {
	if size == 0 {
		return blockAlign, true
	}
	if size > uintptr(maxBlockSize) {
		return 0, false
	}
	return uint32(alignUp(size, blockAlign)), true
}

func alignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

// allocSpan finds room for n bytes: first fit from the free list, then
// the bump pointer, growing the linear memory as needed.
func (m *Manager) allocSpan(n uint32) (uint32, bool) {
	for i, s := range m.free {
		if s.len >= n {
			off := s.off
			if s.len == n {
				m.free = append(m.free[:i], m.free[i+1:]...)
			} else {
				m.free[i] = span{off: s.off + n, len: s.len - n}
			}
			return off, true
		}
	}

	end := m.brk + n
	if end < m.brk {
		return 0, false
	}
	if end > m.mem.Size() {
		needed := alignUp(uintptr(end-m.mem.Size()), pageSize) / pageSize
		if _, ok := m.mem.Grow(uint32(needed)); !ok {
			return 0, false
		}
		m.log.Debug("linear memory grown", zap.Uintptr("pages", needed))
	}
	off := m.brk
	m.brk = end
	return off, true
}

func (m *Manager) freeSpan(s span) {
	if s.off+s.len == m.brk {
		m.brk = s.off
		return
	}
	m.free = append(m.free, s)
}

// copyWithin copies n bytes between offsets of the linear memory.
func (m *Manager) copyWithin(src, dst, n uint32) {
	if n == 0 {
		return
	}
	from, ok1 := m.mem.Read(src, n)
	to, ok2 := m.mem.Read(dst, n)
	if ok1 && ok2 {
		copy(to, from)
	}
}
