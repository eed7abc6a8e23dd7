package cpu

import (
	"testing"

	"github.com/oisee/so-emulator/pkg/isa"
)

// fakeMemory is a plain, unsynchronized Memory for single-threaded tests —
// Exec's Memory interface is satisfied by pkg/mem.DataMemory in production,
// but these tests don't need atomics.
type fakeMemory [256]uint8

func (m *fakeMemory) Load(addr uint8) uint8     { return m[addr] }
func (m *fakeMemory) Store(addr uint8, v uint8) { m[addr] = v }
func (m *fakeMemory) Exchange(addr uint8, v uint8) uint8 {
	old := m[addr]
	m[addr] = v
	return old
}

func TestADDFlags(t *testing.T) {
	tests := []struct {
		a, b    uint8
		wantSum uint8
		wantC   bool
		wantZ   bool
	}{
		{1, 1, 2, false, false},
		{0xFF, 1, 0, true, true},
		{0, 0, 0, false, true},
		{0x7F, 1, 0x80, false, false},
	}
	for _, tc := range tests {
		s := CpuState{A: tc.a, D: tc.b}
		var m fakeMemory
		Exec(&s, &m, isa.Decoded{Op: isa.ADD, Arg1: isa.SelA, Arg2: isa.SelD})
		if s.A != tc.wantSum {
			t.Errorf("ADD %d+%d: A=%d, want %d", tc.a, tc.b, s.A, tc.wantSum)
		}
		if s.C != tc.wantC {
			t.Errorf("ADD %d+%d: C=%v, want %v", tc.a, tc.b, s.C, tc.wantC)
		}
		if s.Z != tc.wantZ {
			t.Errorf("ADD %d+%d: Z=%v, want %v", tc.a, tc.b, s.Z, tc.wantZ)
		}
	}
}

func TestSUBBorrow(t *testing.T) {
	tests := []struct {
		a, b     uint8
		wantDiff uint8
		wantC    bool
	}{
		{5, 3, 2, false},
		{3, 5, 0xFE, true},
		{5, 5, 0, false},
	}
	for _, tc := range tests {
		s := CpuState{A: tc.a, D: tc.b}
		var m fakeMemory
		Exec(&s, &m, isa.Decoded{Op: isa.SUB, Arg1: isa.SelA, Arg2: isa.SelD})
		if s.A != tc.wantDiff || s.C != tc.wantC {
			t.Errorf("SUB %d-%d: A=%d C=%v, want A=%d C=%v", tc.a, tc.b, s.A, s.C, tc.wantDiff, tc.wantC)
		}
	}
}

func TestCMPIDoesNotWriteRegister(t *testing.T) {
	s := CpuState{A: 5}
	var m fakeMemory
	Exec(&s, &m, isa.Decoded{Op: isa.CMPI, Arg1: isa.SelA, Imm: 5})
	if s.A != 5 {
		t.Errorf("CMPI must not modify the register, got A=%d", s.A)
	}
	if !s.Z || s.C {
		t.Errorf("CMPI A,5 with A=5: want Z=true C=false, got Z=%v C=%v", s.Z, s.C)
	}

	s = CpuState{A: 3}
	Exec(&s, &m, isa.Decoded{Op: isa.CMPI, Arg1: isa.SelA, Imm: 5})
	if !s.C {
		t.Errorf("CMPI A,5 with A=3: want C=true (borrow), got C=%v", s.C)
	}
}

func TestRCRCarryChain(t *testing.T) {
	// data[0]=0x81, C=0: two rotates walk bit 0 out through the carry.
	var m fakeMemory
	m.Store(0, 0x81)
	s := CpuState{}
	Exec(&s, &m, isa.Decoded{Op: isa.RCR, Arg1: isa.SelIndX}) // X=0 -> [X]=data[0]
	if got := m.Load(0); got != 0x40 || !s.C {
		t.Fatalf("first RCR: data[0]=%#02x C=%v, want 0x40 true", got, s.C)
	}
	Exec(&s, &m, isa.Decoded{Op: isa.RCR, Arg1: isa.SelIndX})
	if got := m.Load(0); got != 0xA0 || s.C {
		t.Fatalf("second RCR: data[0]=%#02x C=%v, want 0xa0 false", got, s.C)
	}
}

func TestRCRRoundTrip(t *testing.T) {
	// STC; RCR r; STC; RCR r is identity on a byte whose high bit equals
	// its old low bit.
	var m fakeMemory
	m.Store(0, 0b10000001)
	s := CpuState{}
	Exec(&s, &m, isa.Decoded{Op: isa.STC})
	Exec(&s, &m, isa.Decoded{Op: isa.RCR, Arg1: isa.SelIndX})
	Exec(&s, &m, isa.Decoded{Op: isa.STC})
	Exec(&s, &m, isa.Decoded{Op: isa.RCR, Arg1: isa.SelIndX})
	if got := m.Load(0); got != 0b10000001 {
		t.Errorf("round-trip RCR: data[0]=%#08b, want 0b10000001", got)
	}
}

func TestMOVZeroFlagOnly(t *testing.T) {
	s := CpuState{A: 0, C: true}
	var m fakeMemory
	Exec(&s, &m, isa.Decoded{Op: isa.MOV, Arg1: isa.SelD, Arg2: isa.SelA})
	if s.D != 0 || !s.Z {
		t.Errorf("MOV D,A with A=0: D=%d Z=%v, want 0 true", s.D, s.Z)
	}
	if !s.C {
		t.Errorf("MOV must not touch C, got C=false")
	}
}

func TestCLCSTCTouchOnlyCarry(t *testing.T) {
	s := CpuState{A: 7, D: 8, X: 9, Y: 10, PC: 3, Z: true}
	before := s
	var m fakeMemory
	Exec(&s, &m, isa.Decoded{Op: isa.CLC})
	before.PC++ // PC still advances sequentially
	if s.A != before.A || s.D != before.D || s.X != before.X || s.Y != before.Y || s.Z != before.Z {
		t.Errorf("CLC modified more than C: got %+v, want same fields as %+v (except C)", s, before)
	}
	if s.C {
		t.Errorf("CLC must clear C")
	}

	Exec(&s, &m, isa.Decoded{Op: isa.STC})
	if s.A != before.A || s.D != before.D || s.X != before.X || s.Y != before.Y || s.Z != before.Z {
		t.Errorf("STC modified more than C: got %+v, want same fields as %+v (except C)", s, before)
	}
	if !s.C {
		t.Errorf("STC must set C")
	}
}

func TestBranchesTouchOnlyPC(t *testing.T) {
	s := CpuState{A: 1, D: 2, X: 3, Y: 4, PC: 10, C: true, Z: false}
	var m fakeMemory
	Exec(&s, &m, isa.Decoded{Op: isa.JC, Imm: 5})
	if s.A != 1 || s.D != 2 || s.X != 3 || s.Y != 4 || s.C != true || s.Z != false {
		t.Errorf("JC modified a non-PC field: %+v", s)
	}
	if s.PC != 16 { // 10 + 1 + 5
		t.Errorf("JC PC = %d, want 16", s.PC)
	}
}

func TestPCWrapsSequentialAdvance(t *testing.T) {
	s := CpuState{PC: 255}
	var m fakeMemory
	Exec(&s, &m, isa.Decoded{Op: isa.CLC})
	if s.PC != 0 {
		t.Errorf("PC after advancing from 255 = %d, want 0", s.PC)
	}
}

func TestJNZBackwardLoop(t *testing.T) {
	// MOVI D,5; loop: ADDI D,-1; JNZ -2.
	var m fakeMemory
	s := CpuState{}
	Exec(&s, &m, isa.Decoded{Op: isa.MOVI, Arg1: isa.SelD, Imm: 5})
	for i := 0; i < 100 && s.D != 0; i++ {
		Exec(&s, &m, isa.Decoded{Op: isa.ADDI, Arg1: isa.SelD, Imm: 0xFF}) // -1
		if !s.Z {
			Exec(&s, &m, isa.Decoded{Op: isa.JNZ, Imm: isa.I8(-2)})
		} else {
			break
		}
	}
	if s.D != 0 || !s.Z {
		t.Errorf("after loop: D=%d Z=%v, want 0 true", s.D, s.Z)
	}
}

func TestXCHGRegisterToRegister(t *testing.T) {
	s := CpuState{A: 1, D: 2}
	var m fakeMemory
	Exec(&s, &m, isa.Decoded{Op: isa.XCHG, Arg1: isa.SelA, Arg2: isa.SelD})
	if s.A != 2 || s.D != 1 {
		t.Errorf("XCHG A,D: A=%d D=%d, want A=2 D=1", s.A, s.D)
	}
}

func TestXCHGAtomicityRegAndMemory(t *testing.T) {
	// X=5 then XCHG X,[X] must give X=0, data[5]=5 (not data[0]=5): the
	// address is captured before the register side of the swap lands.
	var m fakeMemory
	s := CpuState{X: 5}
	Exec(&s, &m, isa.Decoded{Op: isa.XCHG, Arg1: isa.SelX, Arg2: isa.SelIndX})
	if s.X != 0 {
		t.Errorf("X after XCHG X,[X] = %d, want 0", s.X)
	}
	if got := m.Load(5); got != 5 {
		t.Errorf("data[5] after XCHG X,[X] = %d, want 5", got)
	}
	if got := m.Load(0); got != 0 {
		t.Errorf("data[0] after XCHG X,[X] = %d, want 0 (unwritten)", got)
	}

	m = fakeMemory{}
	s = CpuState{}
	Exec(&s, &m, isa.Decoded{Op: isa.MOVI, Arg1: isa.SelY, Imm: 10})
	Exec(&s, &m, isa.Decoded{Op: isa.MOVI, Arg1: isa.SelIndY, Imm: 6})
	Exec(&s, &m, isa.Decoded{Op: isa.XCHG, Arg1: isa.SelIndY, Arg2: isa.SelY})
	if s.Y != 6 {
		t.Errorf("Y after XCHG [Y],Y = %d, want 6", s.Y)
	}
	if got := m.Load(10); got != 10 {
		t.Errorf("data[10] after XCHG [Y],Y = %d, want 10", got)
	}
}

func TestXCHGTwiceIsIdentity(t *testing.T) {
	var m fakeMemory
	m.Store(3, 99)
	s := CpuState{X: 3, D: 7}
	Exec(&s, &m, isa.Decoded{Op: isa.XCHG, Arg1: isa.SelD, Arg2: isa.SelIndX})
	Exec(&s, &m, isa.Decoded{Op: isa.XCHG, Arg1: isa.SelD, Arg2: isa.SelIndX})
	if s.D != 7 {
		t.Errorf("D after two XCHG = %d, want 7", s.D)
	}
	if got := m.Load(3); got != 99 {
		t.Errorf("data[3] after two XCHG = %d, want 99", got)
	}
}

func TestADDIRoundTrip(t *testing.T) {
	for n := 1; n < 256; n++ {
		s := CpuState{A: 10}
		var m fakeMemory
		Exec(&s, &m, isa.Decoded{Op: isa.ADDI, Arg1: isa.SelA, Imm: uint8(n)})
		Exec(&s, &m, isa.Decoded{Op: isa.ADDI, Arg1: isa.SelA, Imm: uint8(256 - n)})
		if s.A != 10 {
			t.Fatalf("ADDI +%d then +%d: A=%d, want 10", n, 256-n, s.A)
		}
	}
}

func TestADDIPreservesCarry(t *testing.T) {
	// The multiply and increment demo programs decrement a loop counter
	// with ADDI D,-1 in the middle of an ADC/SBB/RCR carry chain; the
	// chain only works because ADDI leaves C alone.
	for _, c := range []bool{false, true} {
		s := CpuState{D: 4, C: c}
		var m fakeMemory
		Exec(&s, &m, isa.Decoded{Op: isa.ADDI, Arg1: isa.SelD, Imm: 0xFF})
		if s.D != 3 {
			t.Errorf("ADDI D,-1: D=%d, want 3", s.D)
		}
		if s.C != c {
			t.Errorf("ADDI D,-1 modified C: got %v, want %v", s.C, c)
		}
		if s.Z {
			t.Errorf("ADDI D,-1 with D=4: Z=true, want false")
		}
	}
}

func TestWrapAroundAddressing(t *testing.T) {
	// X=0xFF, D=0x02: [X+D] wraps around to data[1].
	var m fakeMemory
	m.Store(1, 42)
	s := CpuState{X: 0xFF, D: 0x02}
	Exec(&s, &m, isa.Decoded{Op: isa.MOV, Arg1: isa.SelA, Arg2: isa.SelIndXD})
	if s.A != 42 {
		t.Errorf("MOV A,[X+D] with X=0xFF D=2: A=%d, want 42 (data[1])", s.A)
	}
}

func TestBRKDoesNotAdvancePC(t *testing.T) {
	s := CpuState{PC: 42}
	var m fakeMemory
	halted := Exec(&s, &m, isa.Decoded{Op: isa.BRK})
	if !halted {
		t.Errorf("BRK must report halted=true")
	}
	if s.PC != 42 {
		t.Errorf("BRK must not advance PC, got %d", s.PC)
	}
}
