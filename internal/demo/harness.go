package demo

import (
	"sync"

	"github.com/oisee/so-emulator/internal/trace"
	"github.com/oisee/so-emulator/pkg/core"
	"github.com/oisee/so-emulator/pkg/cpu"
	"github.com/oisee/so-emulator/pkg/isa"
	"github.com/oisee/so-emulator/pkg/mem"
)

// MovResult is the outcome of RunMov: the final register file and the
// data memory it wrote through.
type MovResult struct {
	State cpu.CpuState
	Data  *mem.DataMemory
}

// RunMov runs the mov walkthrough for the given step budget on core 0 of
// a fresh session.
func RunMov(steps uint64) MovResult {
	data := mem.New()
	sess := core.NewSession()
	st := sess.Step(CodeMov(), data, steps, 0)
	return MovResult{State: st, Data: data}
}

// MulResult is the outcome of RunMul: the final register file and the
// data memory holding the 16-bit product at data[0:2].
type MulResult struct {
	State cpu.CpuState
	Data  *mem.DataMemory
}

// RunMul multiplies a and b by single-stepping the shift-add program
// until its PC reaches MulDoneAtPC; the iteration count depends on the
// factors' bit patterns, so a fixed step budget would not do.
func RunMul(a, b uint8) MulResult {
	data := mem.New()
	data.Store(0, a)
	data.Store(1, b)
	code := CodeMul()
	sess := core.NewSession()

	st := sess.Step(code, data, 0, 0)
	for st.PC != MulDoneAtPC {
		st = sess.Step(code, data, 1, 0)
	}
	return MulResult{State: st, Data: data}
}

// stepChunk bounds how many instructions a core executes between trace
// snapshots in RunAtomicIncrement.
const stepChunk = 4096

// IncResult is the outcome of RunAtomicIncrement: each core's final
// register file, in core order, the shared memory they contended over,
// and the recorded per-chunk snapshots of every core.
type IncResult struct {
	States []cpu.CpuState
	Data   *mem.DataMemory
	Trace  *trace.Recorder
}

// RunAtomicIncrement launches `cores` goroutines, one per core ID, each
// running a private copy of the atomic-increment program patched per
// PatchCore, and has them all increment a shared 32-bit big-endian
// counter at data[0:4] (guarded by the XCHG spinlock at data[5]) `count`
// times each. Every goroutine blocks on a shared channel close before its
// first step, so all cores begin together, then the harness joins them
// with a WaitGroup. Each core steps in stepChunk-instruction slices and
// records the state after every slice, so the returned Trace holds a
// progress history of the whole run, not just the final states.
func RunAtomicIncrement(count uint32, cores int) IncResult {
	data := mem.New()
	seed := [4]byte{byte(count >> 24), byte(count >> 16), byte(count >> 8), byte(count)}
	for c := 0; c < cores; c++ {
		base := 8 + 4*c
		for i, b := range seed {
			data.Store(uint8(base+i), b)
		}
	}

	sess := core.NewSession()
	states := make([]cpu.CpuState, cores)
	rec := trace.NewRecorder()

	start := make(chan struct{})
	var wg sync.WaitGroup
	for c := 0; c < cores; c++ {
		wg.Add(1)
		go func(coreID int) {
			defer wg.Done()
			code := PatchCore(CodeInc(), coreID)
			<-start
			for {
				st := sess.Step(code, data, stepChunk, coreID)
				rec.Record(coreID, st)
				if isa.Decode(code[st.PC]).Op == isa.BRK {
					states[coreID] = st
					return
				}
			}
		}(c)
	}
	close(start)
	wg.Wait()

	return IncResult{States: states, Data: data, Trace: rec}
}
