package jit

import (
	"log"
	"sync"
)

// warnOnce reports a diagnostic the first time a given reason is seen and
// stays silent on every later occurrence, keyed by a fixed reason string
// rather than a call stack since the engine only ever warns from a
// handful of known call sites, not an open set of call paths.
type warnOnce struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (w *warnOnce) warn(reason, format string, args ...any) {
	w.mu.Lock()
	if w.seen == nil {
		w.seen = make(map[string]bool)
	}
	if w.seen[reason] {
		w.mu.Unlock()
		return
	}
	w.seen[reason] = true
	w.mu.Unlock()
	log.Printf(format, args...)
}
