package isa

import "strconv"

// Info holds static metadata for an opcode.
type Info struct {
	Mnemonic string
}

// Catalog maps each OpCode to its Info.
var Catalog [OpCodeCount]Info

func init() {
	Catalog[MOV] = Info{"MOV"}
	Catalog[OR] = Info{"OR"}
	Catalog[ADD] = Info{"ADD"}
	Catalog[SUB] = Info{"SUB"}
	Catalog[ADC] = Info{"ADC"}
	Catalog[SBB] = Info{"SBB"}
	Catalog[XCHG] = Info{"XCHG"}
	Catalog[MOVI] = Info{"MOVI"}
	Catalog[XORI] = Info{"XORI"}
	Catalog[ADDI] = Info{"ADDI"}
	Catalog[CMPI] = Info{"CMPI"}
	Catalog[RCR] = Info{"RCR"}
	Catalog[CLC] = Info{"CLC"}
	Catalog[STC] = Info{"STC"}
	Catalog[JMP] = Info{"JMP"}
	Catalog[JNC] = Info{"JNC"}
	Catalog[JC] = Info{"JC"}
	Catalog[JNZ] = Info{"JNZ"}
	Catalog[JZ] = Info{"JZ"}
	Catalog[BRK] = Info{"BRK"}
	Catalog[Invalid] = Info{"???"}
}

// hasImmediate reports whether a decoded instruction carries a meaningful
// 8-bit immediate/branch-offset field.
func hasImmediate(op OpCode) bool {
	switch op {
	case MOVI, XORI, ADDI, CMPI, JMP, JNC, JC, JNZ, JZ:
		return true
	}
	return false
}

// hasArg2 reports whether a decoded instruction carries a second operand.
func hasArg2(op OpCode) bool {
	switch op {
	case MOV, OR, ADD, SUB, ADC, SBB, XCHG:
		return true
	}
	return false
}

// Disassemble renders a decoded instruction as assembly text, e.g.
// "ADDI D, 0xff" or "XCHG [X], A".
func Disassemble(d Decoded) string {
	mnem := Catalog[d.Op].Mnemonic
	switch d.Op {
	case CLC, STC, BRK:
		return mnem
	case RCR:
		return mnem + " " + d.Arg1.String()
	}
	if hasImmediate(d.Op) {
		if d.Op == JMP || d.Op == JNC || d.Op == JC || d.Op == JNZ || d.Op == JZ {
			return mnem + " " + signedOffset(d.Imm)
		}
		return mnem + " " + d.Arg1.String() + ", " + hex8(d.Imm)
	}
	if hasArg2(d.Op) {
		return mnem + " " + d.Arg1.String() + ", " + d.Arg2.String()
	}
	return mnem
}

func hex8(v uint8) string {
	return "0x" + paddedHex(v)
}

func paddedHex(v uint8) string {
	s := strconv.FormatUint(uint64(v), 16)
	if len(s) < 2 {
		s = "0" + s
	}
	return s
}

// signedOffset renders an 8-bit branch immediate as its signed decimal
// value; 0x80..0xFF are negative two's-complement offsets.
func signedOffset(imm uint8) string {
	off := int8(imm)
	if off >= 0 {
		return "+" + strconv.Itoa(int(off))
	}
	return strconv.Itoa(int(off))
}
