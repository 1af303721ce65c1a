package jit

// staging is a deferred hook publication, created on Release when a caller
// supplies a hook and consummated on Commit once the chunk's bytes have
// become executable.
type staging struct {
	start, end int // offsets within the owning page
	hook       *Hook
	link       listNode[staging]
}

func stagingNode(s *staging) *listNode[staging] { return &s.link }
