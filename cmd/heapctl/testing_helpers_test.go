package main

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/blockheap/pkg/workload"
)

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	// Drain concurrently so large reports cannot fill the pipe.
	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.Bytes()
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	out := <-done
	r.Close()

	return string(out), fnErr
}

// assertJSON checks that output is valid JSON and decodes it into v
func assertJSON(t *testing.T, output string, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(output), v), "invalid JSON output:\n%s", output)
}

// resetFlags restores every command flag to its default for the test
func resetFlags(t *testing.T) {
	t.Helper()
	def := workload.DefaultConfig()

	verbose, quiet, jsonOut = false, false, false
	logLevel, logDir = "info", ""

	benchArena, benchMin, benchMax = def.ArenaSize, def.MinSize, def.MaxSize
	benchFreeProb, benchSeed, benchSteps = def.FreeProbability, def.Seed, 0
	benchSearch, benchRelease, benchBacking = nil, nil, "go"

	scriptCapacity = 4096
	scriptSearch, scriptRelease, scriptBacking = "first-fit/split-any", "coalescing", "go"

	t.Cleanup(func() {
		verbose, quiet, jsonOut = false, false, false
	})
}
