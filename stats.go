package jit

import "sync/atomic"

// jitStatsEnabled gates the engine's counters: when false every inc below
// compiles down to nothing of interest on the hot path.
const jitStatsEnabled = false

// counter is a statistics counter, incremented only when jitStatsEnabled.
type counter int64

func (c *counter) inc() {
	c.add(1)
}

func (c *counter) add(n int64) {
	if jitStatsEnabled {
		atomic.AddInt64((*int64)(c), n)
	}
}

func (c *counter) get() int64 {
	return atomic.LoadInt64((*int64)(c))
}

// Stats holds the engine's running counters. All zero when jitStatsEnabled
// is false.
type Stats struct {
	PagesMapped     counter
	HooksPublished  counter
	ChunksCommitted counter
	Overflows       counter
}
