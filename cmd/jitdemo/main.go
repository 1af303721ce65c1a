// Program jitdemo threads two tiny native chunks together through the jit
// package and prints the disassembly of the result.
//
// It builds a leaf chunk that only loads an argument, a root chunk that
// calls the leaf, flushes the engine so both hooks publish immediately,
// then reads the bytes back out of the process's own memory (the chunks
// live in this process, since jitdemo and the engine share an address
// space) and disassembles them for inspection.
package main

import (
	"fmt"
	"unsafe"

	jit "threadjit"
)

func readCode(addr uintptr, n int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n)
}

func main() {
	var e jit.Engine
	jit.Init(&e)
	defer jit.Destroy(&e)

	leaf, ok := jit.Start(&e)
	if !ok {
		panic("jit: Start failed building the leaf chunk")
	}
	if !jit.SetArg(leaf, 0, 111) {
		panic("jit: SetArg failed")
	}
	var leafHook jit.Hook
	leafAddr, ok := jit.Finish(&e, leaf, &leafHook, 0)
	if !ok {
		panic("jit: Finish failed building the leaf chunk")
	}

	root, ok := jit.Start(&e)
	if !ok {
		panic("jit: Start failed building the root chunk")
	}
	if !jit.Call(root, leafAddr) {
		panic("jit: Call failed")
	}
	var rootHook jit.Hook
	rootAddr, ok := jit.Finish(&e, root, &rootHook, 0)
	if !ok {
		panic("jit: Finish failed building the root chunk")
	}

	published := jit.Flush(&e)
	fmt.Printf("flush published %d hook(s)\n", published)
	fmt.Printf("leaf  chunk @ %#x, hook -> %#x\n", leafAddr, leafHook.Load())
	fmt.Printf("root  chunk @ %#x, hook -> %#x\n", rootAddr, rootHook.Load())

	fmt.Println("\nleaf chunk disassembly:")
	printCode(readCode(leafAddr, 48))
	fmt.Println("\nroot chunk disassembly:")
	printCode(readCode(rootAddr, 48))
}
