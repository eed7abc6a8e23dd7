package cpu

import "github.com/oisee/so-emulator/pkg/isa"

// ref is the operand resolver's sum type: a selector resolves to either a
// register reference or a memory address. Keeping the two cases explicit,
// rather than threading selector+state everywhere, is what lets Exec
// snapshot both operands' addresses before either operand is written.
type ref struct {
	isMem bool
	index uint8 // register index, when !isMem
	addr  uint8 // memory address, when isMem
}

// resolve computes a ref for selector sel using the CURRENT register
// values. Address computation always uses pre-write values: for
// two-operand instructions callers must resolve both refs before storing
// through either of them.
func resolve(s *CpuState, sel isa.Selector) ref {
	if !sel.IsMemory() {
		return ref{index: uint8(sel)}
	}
	switch sel {
	case isa.SelIndX:
		return ref{isMem: true, addr: s.X}
	case isa.SelIndY:
		return ref{isMem: true, addr: s.Y}
	case isa.SelIndXD:
		return ref{isMem: true, addr: s.X + s.D}
	case isa.SelIndYD:
		return ref{isMem: true, addr: s.Y + s.D}
	default:
		panic("cpu: resolve() called with an invalid selector")
	}
}

// Memory is the shared-memory surface Exec needs: plain (non-atomic) loads
// and stores plus the atomic exchange primitive. pkg/mem.DataMemory
// satisfies this.
type Memory interface {
	Load(addr uint8) uint8
	Store(addr uint8, v uint8)
	Exchange(addr uint8, v uint8) uint8
}

func (r ref) load(s *CpuState, data Memory) uint8 {
	if r.isMem {
		return data.Load(r.addr)
	}
	return *s.reg(r.index)
}

func (r ref) store(s *CpuState, data Memory, v uint8) {
	if r.isMem {
		data.Store(r.addr, v)
		return
	}
	*s.reg(r.index) = v
}
