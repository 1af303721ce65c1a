package jit

import "golang.org/x/sys/unix"

// PageSize is the size in bytes of a single JIT page. It must be a multiple
// of the OS page size and comfortably within both ISAs' branch-displacement
// budgets (±2GiB on amd64, ±128MiB on arm64).
const PageSize = 64 * 1024

// PageAlign is the alignment, in bytes, of every chunk's starting offset.
// 16 is a safe superset of both amd64 (no alignment requirement) and arm64
// (4-byte instruction alignment), and keeps the epilogue/prologue boundary
// friendly to cache-line-ish reasoning without being wasteful.
const PageAlign = 16

// PageFit is the remaining-room threshold below which Release marks a page
// full rather than leaving it eligible for reuse. Below this many bytes
// there is no point keeping a page in the "has room" bucket of the pool:
// few chunks are smaller than this.
const PageFit = 64

// placementOffset is added past the host image's end when choosing the
// engine's first mapping hint (see placement.go), to avoid the address
// range a heap grown via brk/sbrk would claim.
const placementOffset = 1 << 20 // 1 MiB

func init() {
	if p := unix.Getpagesize(); p > 0 {
		osPageSize = p
	}
}

// osPageSize is the system's page size, used to align the committed-up-to
// offset (invariant: committed is always a multiple of osPageSize).
var osPageSize = 4096

// maxDisplacementAmd64 is the signed 32-bit branch displacement budget of
// x86-64's E8/E9 relative call/jmp forms.
const maxDisplacementAmd64 = 1 << 31

// maxDisplacementArm64 is the signed 26-bit (word-granularity) branch
// displacement budget of AArch64's BL/B forms, expressed in bytes.
const maxDisplacementArm64 = 1 << 27
