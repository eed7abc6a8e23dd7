// Package trace renders CpuState/memory snapshots as text and records
// them across steps. It is a harness concern, deliberately kept out of
// the core emulator packages.
package trace

import (
	"fmt"
	"strings"

	"github.com/oisee/so-emulator/pkg/cpu"
)

// DumpCPUState formats one core's register file on a single line:
// registers in hex, flags as 0/1, and the four addressing-mode views
// ([X], [Y], [X+D], [Y+D]) resolved against the supplied memory.
func DumpCPUState(core int, s cpu.CpuState, load func(addr uint8) uint8) string {
	b1 := func(v bool) int {
		if v {
			return 1
		}
		return 0
	}
	return fmt.Sprintf(
		"core %d: A = %02x, D = %02x, X = %02x, Y = %02x, PC = %02x, C = %d, Z = %d, "+
			"[X] = %02x, [Y] = %02x, [X + D] = %02x, [Y + D] = %02x",
		core, s.A, s.D, s.X, s.Y, s.PC, b1(s.C), b1(s.Z),
		load(s.X), load(s.Y), load(s.X+s.D), load(s.Y+s.D),
	)
}

// DumpMemory renders a 256-byte memory image as 16 rows of 16 hex bytes,
// with an extra gap after the 8th column in each row.
func DumpMemory(data [256]byte) string {
	var sb strings.Builder
	for i, b := range data {
		fmt.Fprintf(&sb, "%02x", b)
		switch i & 0xf {
		case 7:
			sb.WriteString("  ")
		case 15:
			sb.WriteByte('\n')
		default:
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
