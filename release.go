package jit

// Release finalizes whatever chunk the calling thread wrote since Acquire
// (or since the last Release/Abandon of this same page) and hands the
// page back to the engine's pool. If hook is non-nil, stagingValue is
// published to it immediately (so the caller never observes an
// uninitialized hook) and the real chunk address is scheduled to replace
// it once the bytes become executable (see commit). It returns the
// chunk's start address, or false if no usable chunk was produced.
func Release(e *Engine, p *PageBuffer, hook *Hook, stagingValue uintptr) (uintptr, bool) {
	switch {
	case p.index == p.start:
		// Nothing was written.
		e.mu.Lock()
		e.pool.put(p)
		e.mu.Unlock()
		return 0, false

	case p.overflowed() && p.start == 0:
		// The very first chunk on an empty page didn't fit; no chunk on
		// this page ever will, so there is nothing to keep it around for.
		e.Stats.Overflows.inc()
		e.warn.warn("page-too-small",
			"jit: reservation too large to fit a fresh %d-byte page", PageSize)
		if hook != nil {
			hook.Set(stagingValue)
		}
		unmapAnon(p.mem)
		return 0, false

	case p.overflowed():
		// Overflowed, but this page already held prior chunks; rewind and
		// let the caller retry on a fresh page.
		e.Stats.Overflows.inc()
		p.index = p.start
		e.mu.Lock()
		e.pool.put(p)
		e.mu.Unlock()
		return 0, false
	}

	chunkStart := p.start
	p.index = roundUp(p.index, PageAlign)

	if hook != nil {
		hook.Set(stagingValue)
		p.staged.PushBack(&staging{start: chunkStart, end: p.index, hook: hook})
	}
	if p.GetRemaining() < PageFit {
		p.index = PageSize
	}
	p.start = p.index

	commit(e, p)

	e.mu.Lock()
	e.pool.put(p)
	e.mu.Unlock()

	return p.base + uintptr(chunkStart), true
}

// commit transitions whole OS pages from writable to executable and
// publishes every staging whose bytes now fall entirely within executable
// memory. p.start must equal p.index (no writer holds the page). Requires
// no lock: it runs on a page the engine has either not yet pooled (fresh
// Acquire) or has pulled out of the pool for the duration (Release,
// Flush).
func commit(e *Engine, p *PageBuffer) int {
	if p.start != p.index {
		panic("jit: commit: page has a writer")
	}
	target := roundDown(p.start, osPageSize)
	if target > p.committed {
		if err := protect(p.mem[p.committed:target], true); err != nil {
			// A partial W^X state is unrecoverable: abort rather than
			// return an error a caller might try to paper over.
			panic(err)
		}
		p.committed = target
		e.Stats.ChunksCommitted.inc()
	}

	published := 0
	for s := p.staged.First(); s != nil; {
		if s.end > p.committed {
			break
		}
		next := p.staged.Next(s)
		s.hook.Set(p.base + uintptr(s.start))
		p.staged.Remove(s)
		published++
		s = next
	}
	e.Stats.HooksPublished.add(int64(published))
	return published
}

// Flush forces publication of hooks that would otherwise wait until
// enough additional code crossed the next OS-page boundary, by advancing
// a page's cursor to the end of its last staged chunk (rounded up to an
// OS page, and clamped to PageSize) and committing. It returns the number
// of hooks published.
func Flush(e *Engine) int {
	total := 0
	for {
		e.mu.Lock()
		var target *PageBuffer
		e.pool.all(func(p *PageBuffer) {
			if target != nil || p.staged.Empty() || !p.hasRoom(1) {
				return
			}
			target = p
		})
		if target == nil {
			e.mu.Unlock()
			return total
		}
		e.pool.remove(target)
		e.mu.Unlock()

		last := target.staged.Last()
		newCursor := min(roundUp(last.end, osPageSize), PageSize)
		target.start = newCursor
		target.index = newCursor
		total += commit(e, target)

		e.mu.Lock()
		e.pool.put(target)
		e.mu.Unlock()
	}
}

// Abandon rewinds a page's cursor to discard whatever partial chunk the
// calling thread had started, then returns the page to the pool. Used
// when a caller's higher-level build fails mid-chunk.
func Abandon(e *Engine, p *PageBuffer) {
	p.index = p.start
	e.mu.Lock()
	e.pool.put(p)
	e.mu.Unlock()
}
