package workload

import (
	"encoding/json"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/blockheap/heap"
)

// Result is the end state of one heap.
type Result struct {
	Kind          heap.Kind  `json:"kind"`
	Fragmentation float64    `json:"fragmentation"` // 1 - largest free / total free
	InUse         float64    `json:"in_use"`        // used payload bytes / capacity
	Efficiency    float64    `json:"efficiency"`    // requested bytes / used payload bytes
	UsedBytes     int        `json:"used_bytes"`
	Requested     int64      `json:"requested_bytes"`
	Live          int        `json:"live_allocations"`
	Blocks        int        `json:"blocks"`
	Stats         heap.Stats `json:"stats"`
}

// Report is the outcome of one Run.
type Report struct {
	Config    Config   `json:"config"`
	Steps     int      `json:"steps"`
	Exhausted string   `json:"exhausted,omitempty"` // kind of the heap that ran out first
	Results   []Result `json:"results"`
}

// WriteText prints the report in the human format, grouping digits.
func (r *Report) WriteText(w io.Writer) error {
	p := message.NewPrinter(language.English)
	if _, err := p.Fprintf(w, "LOOPS: %d\n", r.Steps); err != nil {
		return err
	}
	if r.Exhausted != "" {
		if _, err := p.Fprintf(w, "Failed allocation on %s\n", r.Exhausted); err != nil {
			return err
		}
	}
	for _, res := range r.Results {
		_, err := p.Fprintf(w, "**** %s\n\tFragmentation %-10f In use %-10f Efficiency %-10f\n\tUsed %d bytes in %d blocks, %d live, %d splits, %d merges\n",
			res.Kind, res.Fragmentation, res.InUse, res.Efficiency,
			res.UsedBytes, res.Blocks, res.Live, res.Stats.Splits, res.Stats.Merges)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON prints the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
