//go:build amd64

package jit

import (
	"bytes"
	"testing"

	"golang.org/x/arch/x86/x86asm"
)

func newTestPage() *PageBuffer {
	return newPageBuffer(0, make([]byte, PageSize))
}

func TestSetRegZeroIsXor(t *testing.T) {
	p := newTestPage()
	if !SetReg(p, RAX, 0) {
		t.Fatal("SetReg should succeed")
	}
	want := []byte{0x31, 0xC0}
	if got := p.mem[:p.index]; !bytes.Equal(got, want) {
		t.Fatalf("SetReg(RAX, 0) = % X, want % X", got, want)
	}
}

func TestSetRegZeroExtendedRegNeedsRex(t *testing.T) {
	p := newTestPage()
	if !SetReg(p, R8, 0) {
		t.Fatal("SetReg should succeed")
	}
	want := []byte{0x45, 0x31, 0xC0}
	if got := p.mem[:p.index]; !bytes.Equal(got, want) {
		t.Fatalf("SetReg(R8, 0) = % X, want % X", got, want)
	}
}

func TestSetReg32BitImmediate(t *testing.T) {
	p := newTestPage()
	if !SetReg(p, RAX, 0x1234) {
		t.Fatal("SetReg should succeed")
	}
	want := []byte{0xB8, 0x34, 0x12, 0x00, 0x00}
	if got := p.mem[:p.index]; !bytes.Equal(got, want) {
		t.Fatalf("SetReg(RAX, 0x1234) = % X, want % X", got, want)
	}
}

func TestSetReg64BitImmediateNeedsRexW(t *testing.T) {
	p := newTestPage()
	v := uint64(0x123456789A)
	if !SetReg(p, RCX, v) {
		t.Fatal("SetReg should succeed")
	}
	buf := p.mem[:p.index]
	inst, err := x86asm.Decode(buf, 64)
	if err != nil {
		t.Fatalf("x86asm.Decode: %v", err)
	}
	if inst.Op != x86asm.MOV {
		t.Fatalf("decoded op = %v, want MOV", inst.Op)
	}
	if inst.Len != len(buf) {
		t.Fatalf("decoded length %d, want %d (full buffer consumed)", inst.Len, len(buf))
	}
}

func TestMovRegDecodesAsMov(t *testing.T) {
	p := newTestPage()
	if !MovReg(p, RBX, RDI) {
		t.Fatal("MovReg should succeed")
	}
	inst, err := x86asm.Decode(p.mem[:p.index], 64)
	if err != nil {
		t.Fatalf("x86asm.Decode: %v", err)
	}
	if inst.Op != x86asm.MOV {
		t.Fatalf("decoded op = %v, want MOV", inst.Op)
	}
}

func TestPrologueEpilogueDecode(t *testing.T) {
	p := newTestPage()
	if !archPrologue(p) {
		t.Fatal("archPrologue should succeed")
	}
	if p.index != archPrologueSize {
		t.Fatalf("prologue emitted %d bytes, want %d", p.index, archPrologueSize)
	}

	buf := p.mem[:p.index]
	wantOps := []x86asm.Op{x86asm.PUSH, x86asm.MOV, x86asm.PUSH, x86asm.MOV}
	off := 0
	for _, want := range wantOps {
		inst, err := x86asm.Decode(buf[off:], 64)
		if err != nil {
			t.Fatalf("x86asm.Decode at offset %d: %v", off, err)
		}
		if inst.Op != want {
			t.Fatalf("instruction at offset %d decoded as %v, want %v", off, inst.Op, want)
		}
		off += inst.Len
	}
	if off != len(buf) {
		t.Fatalf("decoded %d bytes, want %d (prologue fully consumed)", off, len(buf))
	}

	p2 := newTestPage()
	archEpilogue(p2)
	buf2 := p2.mem[:p2.index]
	wantOps2 := []x86asm.Op{x86asm.POP, x86asm.POP, x86asm.RET}
	off = 0
	for _, want := range wantOps2 {
		inst, err := x86asm.Decode(buf2[off:], 64)
		if err != nil {
			t.Fatalf("x86asm.Decode at offset %d: %v", off, err)
		}
		if inst.Op != want {
			t.Fatalf("instruction at offset %d decoded as %v, want %v", off, inst.Op, want)
		}
		off += inst.Len
	}
}

func TestCallUsesRel32WithinRange(t *testing.T) {
	p := newPageBuffer(0x100000, make([]byte, PageSize))
	target := p.base + 0x1000
	if !archCall(p, target) {
		t.Fatal("archCall should succeed")
	}
	buf := p.mem[:p.index]
	if buf[0] != 0xE8 {
		t.Fatalf("first byte = %#x, want 0xE8 (near CALL rel32)", buf[0])
	}
	if len(buf) != 5 {
		t.Fatalf("in-range Call emitted %d bytes, want 5", len(buf))
	}
}

func TestCallFallsBackToIndirectOutOfRange(t *testing.T) {
	p := newPageBuffer(0, make([]byte, PageSize))
	target := uintptr(1) << 40 // far beyond any signed-32-bit displacement
	if !archCall(p, target) {
		t.Fatal("archCall should succeed via the indirect fallback")
	}
	buf := p.mem[:p.index]
	if buf[0] == 0xE8 {
		t.Fatal("an out-of-range Call should not use the direct rel32 form")
	}
	if buf[len(buf)-2] != 0xFF {
		t.Fatalf("indirect call should end in an FF /2 form, got % X", buf)
	}
}

func TestJmpIndirectFallbackUsesFF4(t *testing.T) {
	p := newPageBuffer(0, make([]byte, PageSize))
	target := uintptr(1) << 40
	if !archJmp(p, target) {
		t.Fatal("archJmp should succeed via the indirect fallback")
	}
	buf := p.mem[:p.index]
	last := buf[len(buf)-1]
	// modrm(3, 4, reg) has reg-field bits 0b100 => byte 0xE0 for RAX.
	if last != 0xE0 {
		t.Fatalf("indirect jmp ModRM byte = %#x, want 0xE0", last)
	}
}
