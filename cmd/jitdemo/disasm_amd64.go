//go:build amd64

package main

import (
	"fmt"

	"golang.org/x/arch/x86/x86asm"
)

func printCode(code []byte) {
	off := 0
	for off < len(code) {
		inst, err := x86asm.Decode(code[off:], 64)
		if err != nil || inst.Len == 0 {
			break
		}
		fmt.Printf("  %#04x  %s\n", off, x86asm.GNUSyntax(inst, 0, nil))
		off += inst.Len
	}
}
