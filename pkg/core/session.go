// Package core implements the SO ISA's stepper: the table of per-core
// register files and the single Step entry point harnesses call.
package core

import (
	"github.com/oisee/so-emulator/pkg/cpu"
	"github.com/oisee/so-emulator/pkg/isa"
)

// MaxCores is the compile-time upper bound on core IDs. A Session
// allocates its table at this size regardless of how many cores a
// particular run actually uses.
const MaxCores = 62

// Session is an explicit, fixed-size table of per-core register files.
// There is no lock on the table itself — each slot must be touched by at
// most one goroutine at a time, and that is the caller's responsibility.
// Only the memory a Session's cores share (a *mem.DataMemory, supplied
// per call) needs synchronization, which lives in pkg/mem instead.
type Session struct {
	cores [MaxCores]cpu.CpuState
}

// NewSession returns a Session with every core's register file zeroed
// (A=D=X=Y=PC=0, C=Z=0).
func NewSession() *Session {
	return &Session{}
}

// Step executes up to `steps` instructions for core coreID, reading
// instructions from code and reading/writing data, and returns the
// register file snapshot afterward. coreID must be in [0, MaxCores). The
// register file persists across calls for the same coreID.
//
// steps == 0 returns the current state without executing anything.
// Encountering BRK ends the invocation early without advancing PC;
// subsequent calls re-read BRK and end again immediately (idempotent
// halt).
func (s *Session) Step(code *isa.CodeImage, data cpu.Memory, steps uint64, coreID int) cpu.CpuState {
	state := &s.cores[coreID]

	for i := uint64(0); i < steps; i++ {
		word := code[state.PC]
		decoded := isa.Decode(word)
		if halted := cpu.Exec(state, data, decoded); halted {
			break
		}
	}

	return *state
}

// RunToHalt runs core coreID with the largest representable step budget,
// the conventional "run until BRK" sentinel.
func (s *Session) RunToHalt(code *isa.CodeImage, data cpu.Memory, coreID int) cpu.CpuState {
	return s.Step(code, data, ^uint64(0), coreID)
}
