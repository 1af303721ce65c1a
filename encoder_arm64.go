//go:build arm64

package jit

import "encoding/binary"

const archSupported = true

// Reg names an AArch64 general-purpose register, 0-30 for x0-x30. x31 is
// context-dependent — sp or xzr — and is named here only as the unexported
// sp, the stack-pointer operand of the prologue and epilogue.
type Reg uint8

const (
	X0  Reg = 0
	X1  Reg = 1
	X2  Reg = 2
	X3  Reg = 3
	X4  Reg = 4
	X5  Reg = 5
	X16 Reg = 16 // ip0, the conventional intra-procedure-call scratch reg
	X19 Reg = 19 // first callee-saved register
	X29 Reg = 29 // frame pointer
	X30 Reg = 30 // link register
	sp  Reg = 31
)

// archPrologueSize is the byte length of archPrologue's six instructions.
const archPrologueSize = 6 * 4

var argRegs = [6]Reg{X0, X1, X2, X3, X4, X5}

func archArgReg(i int) Reg { return argRegs[i] }

func archSavedReg() Reg { return X19 }

func archScratchReg() Reg { return X16 }

func archMaxDisplacement() int64 { return maxDisplacementArm64 }

func emit32(p *PageBuffer, word uint32) bool {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], word)
	return p.Append(buf[:])
}

// movWide encodes MOVZ (opc=2), MOVN (opc=0), or MOVK (opc=3) with a
// 16-bit immediate in the hw'th halfword lane.
func movWide(opc uint32, hw uint32, imm16 uint32, rd Reg) uint32 {
	return (1 << 31) | (opc << 29) | (0x25 << 23) | (hw << 21) | (imm16 << 5) | uint32(rd)
}

// archSetReg loads a 64-bit immediate: MOVN when the signed value is a
// small negative number whose upper 48 bits are all ones, otherwise MOVZ
// on the first non-zero 16-bit lane followed by MOVK for every other
// non-zero lane (and a bare MOVZ #0 when the value is exactly zero).
func archSetReg(p *PageBuffer, r Reg, v uint64) bool {
	sv := int64(v)
	if sv >= -0x8000 && sv <= -1 {
		imm16 := uint16(^v)
		return emit32(p, movWide(0, 0, uint32(imm16), r))
	}

	var lanes [4]uint16
	for i := range lanes {
		lanes[i] = uint16(v >> (16 * uint(i)))
	}

	first := -1
	for i, l := range lanes {
		if l != 0 {
			first = i
			break
		}
	}
	if first == -1 {
		first = 0
	}

	if !emit32(p, movWide(2, uint32(first), uint32(lanes[first]), r)) {
		return false
	}
	for i := first + 1; i < 4; i++ {
		if lanes[i] == 0 {
			continue
		}
		if !emit32(p, movWide(3, uint32(i), uint32(lanes[i]), r)) {
			return false
		}
	}
	return true
}

// archMovReg emits the canonical MOV (register) alias, ORR dst, xzr, src.
func archMovReg(p *PageBuffer, dst, src Reg) bool {
	word := (uint32(1) << 31) | (uint32(1) << 29) | (uint32(0x0A) << 24) |
		(uint32(src) << 16) | (uint32(31) << 5) | uint32(dst)
	return emit32(p, word)
}

func strImm(rt, rn Reg, imm12 uint32) uint32 {
	return 0xF9000000 | (imm12 << 10) | (uint32(rn) << 5) | uint32(rt)
}

func ldrImm(rt, rn Reg, imm12 uint32) uint32 {
	return 0xF9400000 | (imm12 << 10) | (uint32(rn) << 5) | uint32(rt)
}

func subImm(rd, rn Reg, imm12 uint32) uint32 {
	return 0xD1000000 | (imm12 << 10) | (uint32(rn) << 5) | uint32(rd)
}

func addImm(rd, rn Reg, imm12 uint32) uint32 {
	return 0x91000000 | (imm12 << 10) | (uint32(rn) << 5) | uint32(rd)
}

const retWord = 0xD65F03C0

// frameSize is the stack space archPrologue/archEpilogue reserve: x29,
// x30, and x19, rounded up to the mandatory 16-byte stack alignment.
const frameSize = 32

// archPrologue saves the frame pointer, link register, and one
// callee-saved register, then copies argument 0 into that callee-saved
// register so it survives across the calls the chunk makes.
func archPrologue(p *PageBuffer) bool {
	ok := emit32(p, subImm(sp, sp, frameSize)) // SUB's imm12 is a raw byte count, not scaled like STR/LDR's
	ok = ok && emit32(p, strImm(X29, sp, 0))
	ok = ok && emit32(p, strImm(X30, sp, 1))
	ok = ok && emit32(p, strImm(X19, sp, 2))
	ok = ok && emit32(p, addImm(X29, sp, 0)) // mov x29, sp (the ADD-immediate #0 alias; ORR's Xm=31 would decode as xzr, not sp)
	ok = ok && archMovReg(p, X19, X0)
	return ok
}

func archEpilogue(p *PageBuffer) bool {
	ok := emit32(p, ldrImm(X29, sp, 0))
	ok = ok && emit32(p, ldrImm(X30, sp, 1))
	ok = ok && emit32(p, ldrImm(X19, sp, 2))
	ok = ok && emit32(p, addImm(sp, sp, frameSize))
	ok = ok && emit32(p, retWord)
	return ok
}

// archCall emits BL with the word-granularity displacement measured from
// the BL instruction itself (not the following instruction, unlike
// amd64's CALL). Out-of-range is a precondition violation: the engine's
// address-space placement keeps emitted code and host functions within
// ±128MiB of each other specifically so this never happens in practice.
func archCall(p *PageBuffer, addr uintptr) bool {
	disp := (int64(addr) - int64(p.GetPc())) >> 2
	if disp < -(1<<25) || disp >= (1<<25) {
		panic("jit: arm64 Call: displacement out of range")
	}
	return emit32(p, 0x94000000|(uint32(disp)&0x3FFFFFF))
}

// archJmp mirrors archCall with B instead of BL.
func archJmp(p *PageBuffer, addr uintptr) bool {
	disp := (int64(addr) - int64(p.GetPc())) >> 2
	if disp < -(1<<25) || disp >= (1<<25) {
		panic("jit: arm64 Jmp: displacement out of range")
	}
	return emit32(p, 0x14000000|(uint32(disp)&0x3FFFFFF))
}
