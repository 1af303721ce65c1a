//go:build amd64

package jit

import "encoding/binary"

const archSupported = true

// Reg names an x86-64 general-purpose register by its 4-bit encoding
// (0-7 need no REX extension bit, 8-15 do).
type Reg uint8

const (
	RAX Reg = 0
	RCX Reg = 1
	RDX Reg = 2
	RBX Reg = 3
	RSP Reg = 4
	RBP Reg = 5
	RSI Reg = 6
	RDI Reg = 7
	R8  Reg = 8
	R9  Reg = 9
	R10 Reg = 10
	R11 Reg = 11
	R12 Reg = 12
	R13 Reg = 13
	R14 Reg = 14
	R15 Reg = 15
)

// archPrologueSize is the byte length of archPrologue's output:
// push rbp; mov rbp,rsp; push rbx; mov rbx,rdi.
const archPrologueSize = 1 + 3 + 1 + 3

// argRegs is the System V AMD64 ABI's first six integer argument
// registers, in order.
var argRegs = [6]Reg{RDI, RSI, RDX, RCX, R8, R9}

func archArgReg(i int) Reg { return argRegs[i] }

// archSavedReg is the callee-saved register the prologue copies argument 0
// into, so it survives across the calls a chunk makes.
func archSavedReg() Reg { return RBX }

// archScratchReg is clobbered by the indirect call/jmp fallback when a
// target is out of ±2GiB range.
func archScratchReg() Reg { return RAX }

func archMaxDisplacement() int64 { return maxDisplacementAmd64 }

func rex(w, r, x, b bool) byte {
	var v byte = 0x40
	if w {
		v |= 0x08
	}
	if r {
		v |= 0x04
	}
	if x {
		v |= 0x02
	}
	if b {
		v |= 0x01
	}
	return v
}

func modrm(mod, reg, rm byte) byte {
	return mod<<6 | (reg&7)<<3 | (rm & 7)
}

// archSetReg loads a 64-bit immediate into r.
//   - zero is special-cased as xor r32,r32 (REX.R/REX.B as needed, no REX.W:
//     the implicit 32-bit zero-extend already clears the full register).
//   - a value that fits unsigned-32-bit uses mov r32, imm32 (zero-extends).
//   - otherwise mov r64, imm64 (REX.W) with an 8-byte immediate.
func archSetReg(p *PageBuffer, r Reg, v uint64) bool {
	lo := byte(r) & 7
	ext := byte(r) >= 8

	if v == 0 {
		var buf []byte
		if ext {
			buf = append(buf, rex(false, ext, false, ext))
		}
		buf = append(buf, 0x31, modrm(3, lo, lo))
		return p.Append(buf)
	}

	if v <= 0xFFFFFFFF {
		buf := make([]byte, 0, 5)
		if ext {
			buf = append(buf, rex(false, false, false, ext))
		}
		buf = append(buf, 0xB8+lo)
		var imm [4]byte
		binary.LittleEndian.PutUint32(imm[:], uint32(v))
		buf = append(buf, imm[:]...)
		return p.Append(buf)
	}

	buf := make([]byte, 0, 10)
	buf = append(buf, rex(true, false, false, ext))
	buf = append(buf, 0xB8+lo)
	var imm [8]byte
	binary.LittleEndian.PutUint64(imm[:], v)
	buf = append(buf, imm[:]...)
	return p.Append(buf)
}

// archMovReg emits mov dst, src (REX.W + 89 /r; MOV r/m64, r64 form, so the
// ModRM reg field carries src and rm carries dst).
func archMovReg(p *PageBuffer, dst, src Reg) bool {
	r := byte(src) >= 8
	b := byte(dst) >= 8
	buf := []byte{
		rex(true, r, false, b),
		0x89,
		modrm(3, byte(src)&7, byte(dst)&7),
	}
	return p.Append(buf)
}

func archPrologue(p *PageBuffer) bool {
	ok := p.Append([]byte{0x55})                   // push rbp
	ok = ok && p.Append([]byte{0x48, 0x89, 0xE5})   // mov rbp, rsp
	ok = ok && p.Append([]byte{0x53})               // push rbx
	ok = ok && archMovReg(p, RBX, RDI)               // mov rbx, rdi
	return ok
}

func archEpilogue(p *PageBuffer) bool {
	ok := p.Append([]byte{0x5B}) // pop rbx
	ok = ok && p.Append([]byte{0x5D}) // pop rbp
	ok = ok && p.Append([]byte{0xC3}) // ret
	return ok
}

// archCall computes the PC-relative displacement from the byte after a
// 5-byte E8 form; if it doesn't fit signed-32-bit, it loads the address
// into the scratch register and calls indirectly instead.
func archCall(p *PageBuffer, addr uintptr) bool {
	disp := int64(addr) - int64(p.GetPc()+5)
	if disp >= -(1<<31) && disp < (1<<31) {
		buf := make([]byte, 5)
		buf[0] = 0xE8
		binary.LittleEndian.PutUint32(buf[1:], uint32(int32(disp)))
		return p.Append(buf)
	}
	if !archSetReg(p, archScratchReg(), uint64(addr)) {
		return false
	}
	return p.Append([]byte{0xFF, modrm(3, 2, byte(archScratchReg())&7)})
}

// archJmp mirrors archCall but emits an unconditional branch: E9 rel32, or
// an indirect jmp through the scratch register when out of range.
func archJmp(p *PageBuffer, addr uintptr) bool {
	disp := int64(addr) - int64(p.GetPc()+5)
	if disp >= -(1<<31) && disp < (1<<31) {
		buf := make([]byte, 5)
		buf[0] = 0xE9
		binary.LittleEndian.PutUint32(buf[1:], uint32(int32(disp)))
		return p.Append(buf)
	}
	if !archSetReg(p, archScratchReg(), uint64(addr)) {
		return false
	}
	return p.Append([]byte{0xFF, modrm(3, 4, byte(archScratchReg())&7)})
}
