// Package demo holds the three example programs for the SO ISA and small
// harnesses that run them: the unconditional-assignment walkthrough, the
// shift-add multiply, and the spinlock-guarded shared-counter increment.
package demo

import (
	"github.com/oisee/so-emulator/pkg/core"
	"github.com/oisee/so-emulator/pkg/isa"
)

// MaxDemoCores is the largest core count the atomic-increment demo will
// accept, bounded by the stepper's fixed-size core table.
const MaxDemoCores = core.MaxCores

// CodeMov returns the "mov" walkthrough program: it stores A and D through
// [X] and [Y], then writes through the indexed forms [X+D] and [Y+D].
func CodeMov() *isa.CodeImage {
	var img isa.CodeImage
	img[0] = 0x4000 + 0x100*0 + 1          // MOVI A, 1
	img[1] = 0x4000 + 0x100*1 + 3          // MOVI D, 3
	img[2] = 0x4000 + 0x100*2 + 0x11       // MOVI X, 0x11
	img[3] = 0x4000 + 0x100*3 + 0x21       // MOVI Y, 0x21
	img[4] = 0x0000 + 0x100*4 + 0x0800*0   // MOV  [X], A
	img[5] = 0x0000 + 0x100*5 + 0x0800*1   // MOV  [Y], D
	img[6] = 0x4000 + 0x100*6 + 0x07       // MOVI [X+D], 0x07
	img[7] = 0x0004 + 0x100*1 + 0x0800*0   // ADD  D, A
	img[8] = 0x4000 + 0x100*6 + 0x08       // MOVI [X+D], 0x08
	img[9] = 0x0000 + 0x100*7 + 0x0800*6   // MOV  [Y+D], [X+D]
	img[10] = 0x0000                       // MOV  A, A (NOP)
	return &img
}

// CodeMul returns the shift-add multiply program. It expects the two
// factors at data[0] and data[1] and, once its PC reaches 13, leaves their
// 16-bit big-endian product at data[0] (high byte) and data[1] (low byte).
func CodeMul() *isa.CodeImage {
	var img isa.CodeImage
	img[0] = 0x4000 + 0x100*2 + 1              // MOVI X, 1
	img[1] = 0x4000 + 0x100*3 + 0               // MOVI Y, 0
	img[2] = 0x0000 + 0x100*0 + 0x0800*5        // MOV  A, [Y]
	img[3] = 0x4000 + 0x100*5 + 0               // MOVI [Y], 0
	img[4] = 0x4000 + 0x100*1 + 8               // MOVI D, 8
	img[5] = 0x7001 + 0x100*4                   // RCR  [X]
	img[6] = 0xC200 + 2                         // JNC  +2
	img[7] = 0x8000                             // CLC
	img[8] = 0x0006 + 0x100*5 + 0x0800*0        // ADC  [Y], A
	img[9] = 0x7001 + 0x100*5                   // RCR  [Y]
	img[10] = 0x7001 + 0x100*4                  // RCR  [X]
	img[11] = 0x6000 + 0x100*1 + 255            // ADDI D, -1
	img[12] = 0xC400 + uint16(isa.I8(-7))  // JNZ  -7
	img[13] = 0xC000                            // JMP  +0 (NOP)
	return &img
}

// MulDoneAtPC is the PC value that marks the multiply program's
// completion; the program has no BRK (word 13 is a NOP and execution
// would run on past it), so harnesses poll PC and stop there.
const MulDoneAtPC = 13

// CodeInc returns the atomic-increment program, unpatched. Per core it
// must have word 0's low byte OR'd with its own down-counter offset
// before use; see PatchCore below. Every core that runs it decrements its own
// 32-bit down-counter (stored at data[8+4*core .. 11+4*core]) that many
// times, each time acquiring the spinlock at data[5] and adding 1 to the
// shared 32-bit big-endian counter at data[0..3].
func CodeInc() *isa.CodeImage {
	var img isa.CodeImage
	img[0] = 0x4000 + 0x100*3 + 0               // MOVI Y, 0 (patched per core)
	img[1] = 0xC000 + 18                        // JMP  +18

	img[2] = 0x4000 + 0x100*0 + 1               // MOVI A, 1
	img[3] = 0x4000 + 0x100*2 + 5                // MOVI X, 5
	img[4] = 0x0008 + 0x100*4 + 0x0800*0         // XCHG [X], A
	img[5] = 0x6800 + 0x100*0 + 0                // CMPI A, 0
	img[6] = 0xC400 + uint16(isa.I8(-3))    // JNZ  -3

	img[7] = 0x4000 + 0x100*2 + 255              // MOVI X, 255
	img[8] = 0x4000 + 0x100*1 + 4                // MOVI D, 4
	img[9] = 0x8100                              // STC
	img[10] = 0x0006 + 0x100*6 + 0x0800*0        // ADC  [X+D], A
	img[11] = 0x6000 + 0x100*1 + 255             // ADDI D, -1
	img[12] = 0xC400 + uint16(isa.I8(-3))   // JNZ  -3

	img[13] = 0x4000 + 0x100*2 + 5               // MOVI X, 5
	img[14] = 0x0000 + 0x100*4 + 0x0800*0        // MOV  [X], A

	img[15] = 0x4000 + 0x100*1 + 4               // MOVI D, 4
	img[16] = 0x8100                             // STC
	img[17] = 0x0007 + 0x100*7 + 0x0800*0        // SBB  [Y+D], A
	img[18] = 0x6000 + 0x100*1 + 255             // ADDI D, -1
	img[19] = 0xC400 + uint16(isa.I8(-3))   // JNZ  -3

	img[20] = 0x4000 + 0x100*1 + 4               // MOVI D, 4
	img[21] = 0x0000 + 0x100*0 + 0x0800*7        // MOV  A, [Y+D]
	img[22] = 0x6000 + 0x100*1 + 255             // ADDI D, -1
	img[23] = 0x0002 + 0x100*0 + 0x0800*7        // OR   A, [Y+D]
	img[24] = 0x6000 + 0x100*1 + 255             // ADDI D, -1
	img[25] = 0xC400 + uint16(isa.I8(-3))   // JNZ  -3

	img[26] = 0x6800 + 0x100*0 + 0               // CMPI A, 0
	img[27] = 0xC400 + uint16(isa.I8(-26))  // JNZ  -26
	img[28] = 0xFFFF                             // BRK
	return &img
}

// PatchCore returns a copy of code with the per-core down-counter offset
// (4*core+7, the address of the counter's byte before its most
// significant byte) baked into word 0's immediate field.
func PatchCore(code *isa.CodeImage, core int) *isa.CodeImage {
	patched := *code
	patched[0] |= uint16(4*core+7) & 0xFF
	return &patched
}

