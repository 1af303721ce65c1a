//go:build !amd64 && !arm64

package main

import "fmt"

func printCode(code []byte) {
	fmt.Printf("  (no disassembler on this architecture, %d raw bytes)\n", len(code))
}
