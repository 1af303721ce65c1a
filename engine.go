package jit

import (
	"sync"
	"sync/atomic"
)

// Engine owns the pool of JIT pages for a process (or for one logical
// owner, if a program wants more than one independently disabled engine).
// Its mutex guards only the page pool and the placement hint; apart from
// Destroy, which unmaps pages under it, it is never held across a syscall, a byte-emission call, or a hook publication —
// those happen on pages that have been removed from the pool for the
// duration, so emission can proceed concurrently across distinct pages.
type Engine struct {
	mu       sync.Mutex
	disabled atomic.Bool

	pool *pagePool
	hint uintptr // next mmap hint; 0 means "not yet computed"
	ref  uintptr // host-image-end reference the hint was seeded from

	warn  warnOnce
	Stats Stats
}

// Init prepares a fresh Engine for use. It is idempotent on a zero-valued
// Engine. Calling it again starts over with an empty page pool, an unset
// placement hint and the disabled flag reset; pages the old pool held are
// not unmapped.
func Init(e *Engine) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pool = newPagePool()
	e.hint = 0
	e.ref = 0
	e.disabled.Store(!archSupported)
}

// Destroy frees every page the engine owns: staged hooks are dropped
// un-published and each page's mapping is unmapped. It must not be called
// concurrently with any in-flight Acquire/Release, and is undefined on an
// Engine that was never Init'd.
func Destroy(e *Engine) {
	e.mu.Lock()
	defer e.mu.Unlock()

	drain := func(l *list[PageBuffer]) {
		for p := l.First(); p != nil; {
			next := l.Next(p)
			l.Remove(p)
			unmapAnon(p.mem)
			p.staged = nil
			p = next
		}
	}
	drain(e.pool.partial)
	drain(e.pool.full)
}

// Disable latches the engine off until the next Init: every future Acquire returns
// failure without attempting another mapping. It is used both as a
// deliberate kill-switch and internally whenever the kernel refuses a
// usable mapping.
func Disable(e *Engine) {
	e.disabled.Store(true)
}

// IsDisabled reports whether Disable has been called.
func IsDisabled(e *Engine) bool {
	return e.disabled.Load()
}

// Acquire returns a page with at least reserve bytes of room, removing it
// from the pool for the calling thread's exclusive use until Release,
// Abandon, or Splice hands it back. reserve must be positive and no larger
// than PageSize. Page metadata lives in a separately allocated Go struct
// rather than at the head of the mapped region, so the whole page is
// available to chunks.
func Acquire(e *Engine, reserve int) (*PageBuffer, bool) {
	if reserve <= 0 || reserve > PageSize {
		panic("jit: Acquire: reserve out of range")
	}

	e.mu.Lock()
	if e.disabled.Load() {
		e.mu.Unlock()
		return nil, false
	}
	if p := e.pool.take(reserve); p != nil {
		e.mu.Unlock()
		return p, true
	}
	e.mu.Unlock()

	p, ok := newPage(e)
	if !ok {
		return nil, false
	}
	return p, true
}

// newPage maps a fresh page near the host image, advancing the engine's
// placement hint monotonically and retrying past any collision. It
// disables the engine on unrecoverable mapping failure.
func newPage(e *Engine) (*PageBuffer, bool) {
	e.mu.Lock()
	if e.hint == 0 {
		e.ref = roundUpHint(locateHostImageEnd())
		e.hint = nextHint()
	}
	hint := e.hint
	e.mu.Unlock()

	for {
		base, mem, err := mapAnon(hint, PageSize)
		if err == errMappingCollision {
			hint += PageSize
			continue
		}
		if err != nil {
			Disable(e)
			return nil, false
		}

		if dist := base - e.ref; dist > halfMaxDisplacement() {
			e.warn.warn("far-placement",
				"jit: page mapped %#x bytes from host image; calls beyond the "+
					"branch-displacement budget cannot use the direct relative form", dist)
		}

		e.mu.Lock()
		e.hint = base + PageSize
		e.mu.Unlock()

		e.Stats.PagesMapped.inc()
		return newPageBuffer(base, mem), true
	}
}
