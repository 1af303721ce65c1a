package jit

import "sync/atomic"

// Hook is a caller-owned, pointer-sized cell naming a callable entry point.
// The engine installs the address of a freshly-emitted, now-executable
// chunk into it; readers on any thread load it with Load and jump through
// the result. The cell itself is never allocated by the engine — callers
// embed a Hook in whatever structure needs a fast-path entry point.
type Hook struct {
	addr atomic.Uintptr
}

// Set stores v into the hook with release ordering: it is only safe to
// call once the bytes at v are committed executable (see commit), so that
// any reader observing the new value via Load is guaranteed to see a fully
// formed chunk.
//
// Go's sync/atomic operations are sequentially consistent, a strictly
// stronger guarantee than the release/acquire pairing this only needs;
// Set/Load is used here, rather than plain field assignment, purely to get
// that ordering guarantee portably.
func (h *Hook) Set(v uintptr) {
	h.addr.Store(v)
}

// Load reads the hook's current value with acquire ordering. Zero means no
// chunk has been published yet.
func (h *Hook) Load() uintptr {
	return h.addr.Load()
}
