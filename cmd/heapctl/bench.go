package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/joshuapare/blockheap/pkg/workload"
)

var (
	benchArena    int
	benchMin      int
	benchMax      int
	benchFreeProb float64
	benchSeed     int64
	benchSteps    int
	benchSearch   []string
	benchRelease  []string
	benchBacking  string

	closeHeaps = workload.CloseAll
)

func init() {
	cmd := newBenchCmd()
	def := workload.DefaultConfig()
	cmd.Flags().IntVar(&benchArena, "arena", def.ArenaSize, "Arena size per heap in bytes, headers included")
	cmd.Flags().IntVar(&benchMin, "min", def.MinSize, "Smallest request size")
	cmd.Flags().IntVar(&benchMax, "max", def.MaxSize, "Largest request size")
	cmd.Flags().Float64Var(&benchFreeProb, "free-prob", def.FreeProbability, "Probability of releasing a random live allocation each step")
	cmd.Flags().Int64Var(&benchSeed, "seed", def.Seed, "Random seed")
	cmd.Flags().IntVar(&benchSteps, "steps", 0, "Stop after this many steps (0 runs until a heap is exhausted)")
	cmd.Flags().StringSliceVar(&benchSearch, "search", nil, "Search policies to run (default: all)")
	cmd.Flags().StringSliceVar(&benchRelease, "release", nil, "Release policies to run (default: all)")
	cmd.Flags().StringVar(&benchBacking, "backing", "go", "Arena memory: go or mmap")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "Compare policy pairs under a randomized workload",
		Long: `The bench command builds one heap per search/release pair and feeds them
the same random request stream until the first heap runs out of space.
It then reports fragmentation, utilization and efficiency for each heap.

Example:
  heapctl bench
  heapctl bench --arena 65536 --max 256 --seed 7
  heapctl bench --search best-fit/split-25 --release coalescing --steps 100000 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench()
		},
	}
}

func runBench() (err error) {
	cfg := workload.Config{
		ArenaSize:       benchArena,
		MinSize:         benchMin,
		MaxSize:         benchMax,
		FreeProbability: benchFreeProb,
		Seed:            benchSeed,
		MaxSteps:        benchSteps,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	searches, err := parseSearches(benchSearch)
	if err != nil {
		return err
	}
	releases, err := parseReleases(benchRelease)
	if err != nil {
		return err
	}
	opts, err := heapOptions(benchBacking)
	if err != nil {
		return err
	}

	heaps, err := workload.Matrix(cfg.ArenaSize, searches, releases, opts)
	if err != nil {
		return fmt.Errorf("failed to build heaps: %w", err)
	}
	defer func() {
		if closeErr := closeHeaps(heaps); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to release heaps: %w", closeErr)
		}
	}()

	printVerbose("Running %d heaps of %d bytes (seed %d)\n", len(heaps), cfg.ArenaSize, cfg.Seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rep, runErr := workload.Run(ctx, cfg, heaps)
	if rep == nil {
		return runErr
	}

	if jsonOut {
		if err := rep.WriteJSON(os.Stdout); err != nil {
			return err
		}
	} else if !quiet {
		if err := rep.WriteText(os.Stdout); err != nil {
			return err
		}
	}
	return runErr
}
