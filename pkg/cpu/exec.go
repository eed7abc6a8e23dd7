package cpu

import "github.com/oisee/so-emulator/pkg/isa"

// Exec executes one decoded instruction against state s and shared memory
// data, updating each opcode's flag subset and advancing PC (by 1 mod 256,
// or to the branch target). It reports whether the instruction was BRK —
// the stepper (pkg/core) uses this to end the current Step invocation
// early without advancing PC past the halt.
func Exec(s *CpuState, data Memory, d isa.Decoded) (halted bool) {
	switch d.Op {
	case isa.MOV:
		r1, r2 := resolve(s, d.Arg1), resolve(s, d.Arg2)
		v := r2.load(s, data)
		r1.store(s, data, v)
		s.Z = zeroFlag(v)

	case isa.OR:
		r1, r2 := resolve(s, d.Arg1), resolve(s, d.Arg2)
		v := r1.load(s, data) | r2.load(s, data)
		r1.store(s, data, v)
		s.Z = zeroFlag(v)

	case isa.ADD:
		r1, r2 := resolve(s, d.Arg1), resolve(s, d.Arg2)
		a, b := r1.load(s, data), r2.load(s, data)
		sum := a + b
		r1.store(s, data, sum)
		s.C = addCarry(a, b, false)
		s.Z = zeroFlag(sum)

	case isa.SUB:
		r1, r2 := resolve(s, d.Arg1), resolve(s, d.Arg2)
		a, b := r1.load(s, data), r2.load(s, data)
		diff := a - b
		r1.store(s, data, diff)
		s.C = subBorrow(a, b, false)
		s.Z = zeroFlag(diff)

	case isa.ADC:
		r1, r2 := resolve(s, d.Arg1), resolve(s, d.Arg2)
		a, b := r1.load(s, data), r2.load(s, data)
		cin := s.C
		sum := a + b
		if cin {
			sum++
		}
		r1.store(s, data, sum)
		s.C = addCarry(a, b, cin)
		s.Z = zeroFlag(sum)

	case isa.SBB:
		r1, r2 := resolve(s, d.Arg1), resolve(s, d.Arg2)
		a, b := r1.load(s, data), r2.load(s, data)
		bin := s.C
		diff := a - b
		if bin {
			diff--
		}
		r1.store(s, data, diff)
		s.C = subBorrow(a, b, bin)
		s.Z = zeroFlag(diff)

	case isa.XCHG:
		execXCHG(s, data, d.Arg1, d.Arg2)

	case isa.MOVI:
		r1 := resolve(s, d.Arg1)
		r1.store(s, data, d.Imm)
		s.Z = zeroFlag(d.Imm)

	case isa.XORI:
		r1 := resolve(s, d.Arg1)
		v := r1.load(s, data) ^ d.Imm
		r1.store(s, data, v)
		s.Z = zeroFlag(v)

	case isa.ADDI:
		// ADDI sets only Z. Leaving C alone is load-bearing: the multiply
		// and increment demo programs run their ADC/SBB/RCR carry chains
		// across an "ADDI D, -1" loop decrement, so a C update here would
		// corrupt the chain (61*18 comes out as 0x3C86 instead of 0x044A,
		// and the multi-byte down-counters never reach zero).
		r1 := resolve(s, d.Arg1)
		sum := r1.load(s, data) + d.Imm
		r1.store(s, data, sum)
		s.Z = zeroFlag(sum)

	case isa.CMPI:
		r1 := resolve(s, d.Arg1)
		a := r1.load(s, data)
		diff := a - d.Imm
		s.C = subBorrow(a, d.Imm, false)
		s.Z = zeroFlag(diff)

	case isa.RCR:
		r1 := resolve(s, d.Arg1)
		v := r1.load(s, data)
		newC := v&1 != 0
		newV := v >> 1
		if s.C {
			newV |= 0x80
		}
		r1.store(s, data, newV)
		s.C = newC
		s.Z = zeroFlag(newV)

	case isa.CLC:
		s.C = false

	case isa.STC:
		s.C = true

	case isa.JMP:
		s.PC = s.PC + 1 + d.Imm
		return false

	case isa.JNC:
		if !s.C {
			s.PC = s.PC + 1 + d.Imm
		} else {
			s.PC++
		}
		return false

	case isa.JC:
		if s.C {
			s.PC = s.PC + 1 + d.Imm
		} else {
			s.PC++
		}
		return false

	case isa.JNZ:
		if !s.Z {
			s.PC = s.PC + 1 + d.Imm
		} else {
			s.PC++
		}
		return false

	case isa.JZ:
		if s.Z {
			s.PC = s.PC + 1 + d.Imm
		} else {
			s.PC++
		}
		return false

	case isa.BRK:
		return true

	case isa.Invalid:
		// Unknown encodings execute as a NOP: advance PC, touch no flags.

	default:
		// unreachable: every isa.OpCode value is handled above
	}

	s.PC++
	return false
}

// execXCHG implements the atomic exchange. When neither operand is memory
// the swap is purely local to one core and needs no atomic primitive. When
// one operand is memory, the register's pre-swap value is written
// atomically via Memory.Exchange, which gives the instruction a single
// global linearization point. Both operands' addresses are resolved
// against pre-swap register values before either side is touched — this is
// what makes "XCHG X, [X]" with X=5 produce X=data[5], data[5]=5 rather
// than data[0]=5.
func execXCHG(s *CpuState, data Memory, sel1, sel2 isa.Selector) {
	r1, r2 := resolve(s, sel1), resolve(s, sel2)

	switch {
	case !r1.isMem && !r2.isMem:
		v1, v2 := *s.reg(r1.index), *s.reg(r2.index)
		*s.reg(r1.index), *s.reg(r2.index) = v2, v1

	case r1.isMem && !r2.isMem:
		regVal := *s.reg(r2.index)
		*s.reg(r2.index) = data.Exchange(r1.addr, regVal)

	case !r1.isMem && r2.isMem:
		regVal := *s.reg(r1.index)
		*s.reg(r1.index) = data.Exchange(r2.addr, regVal)

	default:
		// Both operands are memory. The encoding permits this but no known
		// program emits it. The swap composes two atomic exchanges through
		// a local scratch byte, so it is not a single linearizable event
		// when addr1 != addr2 (an observer could see memory between the
		// two exchanges).
		scratch := data.Load(r2.addr)
		scratch = data.Exchange(r1.addr, scratch)
		data.Exchange(r2.addr, scratch)
	}
}
