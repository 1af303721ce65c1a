//go:build arm64

package main

import (
	"fmt"

	"golang.org/x/arch/arm64/arm64asm"
)

func printCode(code []byte) {
	for off := 0; off+4 <= len(code); off += 4 {
		inst, err := arm64asm.Decode(code[off : off+4])
		if err != nil {
			break
		}
		fmt.Printf("  %#04x  %s\n", off, inst.String())
	}
}
