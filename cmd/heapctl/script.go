package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/blockheap/heap"
	"github.com/joshuapare/blockheap/heap/release"
	"github.com/joshuapare/blockheap/heap/search"
)

var (
	scriptCapacity int
	scriptSearch   string
	scriptRelease  string
	scriptBacking  string
)

func init() {
	cmd := newScriptCmd()
	cmd.Flags().IntVar(&scriptCapacity, "capacity", 4096, "Arena size in bytes, headers included")
	cmd.Flags().StringVar(&scriptSearch, "search", "first-fit/split-any", "Search policy")
	cmd.Flags().StringVar(&scriptRelease, "release", "coalescing", "Release policy")
	cmd.Flags().StringVar(&scriptBacking, "backing", "go", "Arena memory: go or mmap")
	rootCmd.AddCommand(cmd)
}

func newScriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "script <op>...",
		Short: "Replay allocations and releases against one heap",
		Long: `The script command applies a sequence of operations to a single heap and
prints the resulting block chain. Operations are:

  a<size>   allocate size bytes
  r<n>      release the n-th allocation made by this script (0-based)

Failed allocations and rejected releases are reported and the script goes on.

Example:
  heapctl script --capacity 96 a16 a16 a16 r1
  heapctl script --search best-fit/split-any --release simple a40 a8 r0 a16 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(args)
		},
	}
}

type scriptOp struct {
	alloc bool
	arg   int
}

func parseOp(s string) (scriptOp, error) {
	if len(s) < 2 || (s[0] != 'a' && s[0] != 'r') {
		return scriptOp{}, fmt.Errorf("bad operation %q: want a<size> or r<index>", s)
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 0 {
		return scriptOp{}, fmt.Errorf("bad operation %q: %q is not a non-negative number", s, s[1:])
	}
	return scriptOp{alloc: s[0] == 'a', arg: n}, nil
}

// OpResult records the outcome of one script operation.
type OpResult struct {
	Op     string      `json:"op"`
	Handle heap.Handle `json:"handle,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// ScriptReport is the JSON form of a script run.
type ScriptReport struct {
	Kind          heap.Kind        `json:"kind"`
	Capacity      int              `json:"capacity"`
	Ops           []OpResult       `json:"ops"`
	Blocks        []heap.BlockInfo `json:"blocks"`
	Census        heap.Census      `json:"census"`
	Fragmentation float64          `json:"fragmentation"`
	Stats         heap.Stats       `json:"stats"`
}

func runScript(args []string) error {
	ops := make([]scriptOp, len(args))
	for i, a := range args {
		op, err := parseOp(a)
		if err != nil {
			return err
		}
		ops[i] = op
	}

	s, err := search.Parse(scriptSearch)
	if err != nil {
		return err
	}
	r, err := release.Parse(scriptRelease)
	if err != nil {
		return err
	}
	opts, err := heapOptions(scriptBacking)
	if err != nil {
		return err
	}
	h, err := heap.NewWithOptions(scriptCapacity, s, r, opts)
	if err != nil {
		return err
	}
	defer h.Close()

	rep := ScriptReport{Kind: h.Kind(), Capacity: h.Capacity()}
	var handles []heap.Handle
	for i, op := range ops {
		res := OpResult{Op: args[i]}
		if op.alloc {
			hd, err := h.Allocate(op.arg)
			switch {
			case errors.Is(err, heap.ErrNoSpace):
				res.Error = "no space"
			case err != nil:
				return err
			default:
				handles = append(handles, hd)
				res.Handle = hd
			}
		} else {
			if op.arg >= len(handles) {
				return fmt.Errorf("operation %q: only %d allocations so far", args[i], len(handles))
			}
			res.Handle = handles[op.arg]
			if err := h.Release(res.Handle); err != nil {
				res.Error = err.Error()
			}
		}
		rep.Ops = append(rep.Ops, res)
	}

	if err := h.Verify(); err != nil {
		return fmt.Errorf("heap is inconsistent after script: %w", err)
	}

	h.Walk(func(b heap.BlockInfo) bool {
		rep.Blocks = append(rep.Blocks, b)
		return true
	})
	rep.Census = h.Census()
	rep.Fragmentation = rep.Census.Fragmentation()
	rep.Stats = h.Stats()

	if jsonOut {
		return printJSON(rep)
	}
	printScript(rep)
	return nil
}

func printScript(rep ScriptReport) {
	printInfo("\nHeap: %s (capacity %d)\n", rep.Kind, rep.Capacity)
	printInfo("%s\n\n", strings.Repeat("=", 40))

	printInfo("Operations:\n")
	for _, res := range rep.Ops {
		switch {
		case res.Error != "":
			printInfo("  %-8s %s\n", res.Op, res.Error)
		case strings.HasPrefix(res.Op, "a"):
			printInfo("  %-8s -> handle %d\n", res.Op, res.Handle)
		default:
			printInfo("  %-8s released handle %d\n", res.Op, res.Handle)
		}
	}

	printInfo("\nBlocks:\n")
	printInfo("  %8s %8s %-5s %s\n", "OFFSET", "SIZE", "STATE", "HANDLE")
	for _, b := range rep.Blocks {
		state := "free"
		handle := "-"
		if b.InUse {
			state = "used"
			handle = strconv.Itoa(int(b.Handle))
		}
		printInfo("  %8d %8d %-5s %s\n", b.Offset, b.Size, state, handle)
	}

	printInfo("\nUsed: %d bytes in %d blocks\n", rep.Census.UsedBytes, rep.Census.UsedBlocks)
	printInfo("Free: %d bytes in %d blocks (largest %d)\n",
		rep.Census.FreeBytes, rep.Census.FreeBlocks(), rep.Census.LargestFree)
	printInfo("Fragmentation: %.2f\n", rep.Fragmentation)
	printVerbose("Splits: %d  Merges: %d  Rejected releases: %d\n",
		rep.Stats.Splits, rep.Stats.Merges, rep.Stats.RejectedReleases)
}
