//go:build !amd64 && !arm64

package jit

// archSupported is false on every architecture without a real encoder
// backend. Init checks it and calls Disable immediately: the package still
// links and its API still behaves on an unsupported architecture, every
// operation just reports failure instead of the build failing outright.
const archSupported = false

// Reg is an opaque placeholder; no architecture here has real registers
// to name.
type Reg uint8

const archPrologueSize = 0

func archArgReg(int) Reg         { return 0 }
func archSavedReg() Reg          { return 0 }
func archScratchReg() Reg        { return 0 }
func archMaxDisplacement() int64 { return 0 }

func archSetReg(*PageBuffer, Reg, uint64) bool { return false }
func archMovReg(*PageBuffer, Reg, Reg) bool    { return false }
func archPrologue(*PageBuffer) bool            { return false }
func archEpilogue(*PageBuffer) bool            { return false }
func archCall(*PageBuffer, uintptr) bool       { return false }
func archJmp(*PageBuffer, uintptr) bool        { return false }
