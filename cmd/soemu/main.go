package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/oisee/so-emulator/internal/demo"
	"github.com/oisee/so-emulator/internal/trace"
	"github.com/oisee/so-emulator/pkg/core"
	"github.com/oisee/so-emulator/pkg/isa"
	"github.com/oisee/so-emulator/pkg/mem"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "soemu",
		Short: "SO ISA emulator — run the reference single- and multi-core demos",
	}

	var movSteps uint64
	movCmd := &cobra.Command{
		Use:   "mov",
		Short: "Run the unconditional-assignment walkthrough",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := demo.RunMov(movSteps)
			snap := r.Data.Snapshot()
			fmt.Println(trace.DumpCPUState(0, r.State, r.Data.Load))
			fmt.Println(trace.DumpMemory(snap))
			return nil
		},
	}
	movCmd.Flags().Uint64Var(&movSteps, "steps", 7, "Number of instructions to execute")

	var mulTrace bool
	mulCmd := &cobra.Command{
		Use:   "mul a b",
		Short: "Multiply two 8-bit factors with the shift-add program",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parseByte(args[0])
			if err != nil {
				return fmt.Errorf("invalid factor a: %w", err)
			}
			b, err := parseByte(args[1])
			if err != nil {
				return fmt.Errorf("invalid factor b: %w", err)
			}

			var r demo.MulResult
			if mulTrace {
				r = runMulTraced(a, b)
			} else {
				r = demo.RunMul(a, b)
			}
			snap := r.Data.Snapshot()
			fmt.Println(trace.DumpCPUState(0, r.State, r.Data.Load))
			fmt.Println(trace.DumpMemory(snap))
			product := uint16(r.Data.Load(0))<<8 | uint16(r.Data.Load(1))
			fmt.Printf("%d * %d = %d\n", a, b, product)
			return nil
		},
	}
	mulCmd.Flags().BoolVar(&mulTrace, "trace", false, "Print each executed instruction and the resulting state")

	var atomicCores int
	var atomicTrace bool
	atomicCmd := &cobra.Command{
		Use:   "atomic count",
		Short: "Increment a shared counter from multiple cores via XCHG spinlock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid count: %w", err)
			}
			if atomicCores <= 0 || atomicCores > demo.MaxDemoCores {
				return fmt.Errorf("--cores must be in [1, %d]", demo.MaxDemoCores)
			}

			r := demo.RunAtomicIncrement(uint32(count), atomicCores)
			if atomicTrace {
				for _, e := range r.Trace.Entries() {
					fmt.Printf("snapshot %4d  %s\n", e.Sequence, trace.DumpCPUState(e.Core, e.State, r.Data.Load))
				}
			}
			for i, st := range r.States {
				fmt.Println(trace.DumpCPUState(i, st, r.Data.Load))
			}
			fmt.Println(trace.DumpMemory(r.Data.Snapshot()))
			return nil
		},
	}
	atomicCmd.Flags().IntVar(&atomicCores, "cores", 4, "Number of concurrent cores")
	atomicCmd.Flags().BoolVar(&atomicTrace, "trace", false, "Print every recorded per-core progress snapshot")

	rootCmd.AddCommand(movCmd, mulCmd, atomicCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runMulTraced single-steps the multiply program, printing each executed
// instruction's disassembly and the state it produced.
func runMulTraced(a, b uint8) demo.MulResult {
	data := mem.New()
	data.Store(0, a)
	data.Store(1, b)
	code := demo.CodeMul()
	sess := core.NewSession()

	st := sess.Step(code, data, 0, 0)
	for st.PC != demo.MulDoneAtPC {
		d := isa.Decode(code[st.PC])
		st = sess.Step(code, data, 1, 0)
		fmt.Printf("%-16s %s\n", isa.Disassemble(d), trace.DumpCPUState(0, st, data.Load))
	}
	return demo.MulResult{State: st, Data: data}
}

func parseByte(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, err
	}
	return uint8(v), nil
}
