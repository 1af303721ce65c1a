// Package jit assembles short machine-code stubs that chain together
// existing, statically-compiled functions, then installs their addresses as
// hooks observed by other threads.
//
// The motivation is to replace an interpreter loop's indirect dispatch with
// a straight-line sequence of calls: instead of re-entering a dispatch loop
// between every step of a threaded program, the engine emits native code
// that calls each step directly and hands the result to the next. Only two
// instruction-set back ends are supported, amd64 and arm64; on any other
// architecture the engine is permanently disabled and every operation
// reports failure.
package jit
