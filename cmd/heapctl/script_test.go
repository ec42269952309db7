package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOp(t *testing.T) {
	tests := []struct {
		in      string
		want    scriptOp
		wantErr bool
	}{
		{in: "a16", want: scriptOp{alloc: true, arg: 16}},
		{in: "a0", want: scriptOp{alloc: true, arg: 0}},
		{in: "r3", want: scriptOp{alloc: false, arg: 3}},
		{in: "a", wantErr: true},
		{in: "x16", wantErr: true},
		{in: "a-1", wantErr: true},
		{in: "rfoo", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseOp(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScriptCommand(t *testing.T) {
	tests := []struct {
		name        string
		capacity    int
		search      string
		release     string
		ops         []string
		wantErr     bool
		wantContain []string
	}{
		{
			name:     "three allocations and a release",
			capacity: 96,
			ops:      []string{"a16", "a16", "a16", "r1"},
			wantContain: []string{
				"first-fit/split-any + coalescing (capacity 96)",
				"a16      -> handle 8",
				"a16      -> handle 56",
				"r1       released handle 32",
				"Fragmentation: 0.50",
			},
		},
		{
			name:        "allocation that does not fit",
			capacity:    96,
			ops:         []string{"a200"},
			wantContain: []string{"a200     no space", "Used: 0 bytes in 0 blocks"},
		},
		{
			name:        "double release is rejected",
			capacity:    96,
			ops:         []string{"a16", "r0", "r0"},
			wantContain: []string{"invalid handle"},
		},
		{
			name:     "best fit with simple release",
			capacity: 4096,
			search:   "best-fit/split-any",
			release:  "simple",
			ops:      []string{"a40", "a8", "r0", "a16"},
			wantContain: []string{
				"best-fit/split-any + simple",
				"a16      -> handle 8",
			},
		},
		{
			name:    "release before allocation",
			ops:     []string{"r0"},
			wantErr: true,
		},
		{
			name:    "unknown search policy",
			search:  "worst-fit",
			ops:     []string{"a8"},
			wantErr: true,
		},
		{
			name:     "bad capacity",
			capacity: 100,
			ops:      []string{"a8"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			if tt.capacity != 0 {
				scriptCapacity = tt.capacity
			}
			if tt.search != "" {
				scriptSearch = tt.search
			}
			if tt.release != "" {
				scriptRelease = tt.release
			}

			out, err := captureOutput(t, func() error { return runScript(tt.ops) })
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.wantContain {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestScriptJSON(t *testing.T) {
	resetFlags(t)
	jsonOut = true
	scriptCapacity = 96

	out, err := captureOutput(t, func() error { return runScript([]string{"a16", "a16", "a16", "r1"}) })
	require.NoError(t, err)

	var rep ScriptReport
	assertJSON(t, out, &rep)
	assert.Equal(t, 96, rep.Capacity)
	assert.Equal(t, "coalescing", rep.Kind.Release)
	require.Len(t, rep.Ops, 4)
	assert.EqualValues(t, 32, rep.Ops[1].Handle)
	require.Len(t, rep.Blocks, 4)
	assert.False(t, rep.Blocks[1].InUse)
	assert.Equal(t, 32, rep.Census.UsedBytes)
	assert.InDelta(t, 0.5, rep.Fragmentation, 1e-9)
}
