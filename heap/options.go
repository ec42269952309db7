package heap

import (
	"log/slog"

	"github.com/joshuapare/blockheap/internal/backing"
)

// Options tunes heap construction. The zero value (or nil) is the default.
type Options struct {
	// Backing selects where the arena bytes come from. Default: Go heap.
	Backing backing.Kind

	// Logger receives debug and warning events. Default: logger.L.
	Logger *slog.Logger

	// SkipHandleChecks makes Release trust its handle beyond a bounds check.
	// Releasing a foreign or already released handle then corrupts the arena.
	SkipHandleChecks bool
}
