package workload

import (
	"errors"
	"fmt"
	"math"
)

// Config is the driver's parameter set.
type Config struct {
	ArenaSize       int     `json:"arena_size"`       // bytes per heap, headers included
	MinSize         int     `json:"min_size"`         // smallest request
	MaxSize         int     `json:"max_size"`         // largest request, inclusive
	FreeProbability float64 `json:"free_probability"` // chance of releasing a random live allocation after each step
	Seed            int64   `json:"seed"`
	MaxSteps        int     `json:"max_steps"` // 0 means run until a heap is exhausted
}

// DefaultArenaSize is the arena used by DefaultConfig.
const DefaultArenaSize = 8192 * 128

// DefaultConfig returns a 1 MiB arena with requests between 1 byte and the
// square root of the arena size, releasing after four steps in five.
func DefaultConfig() Config {
	return Config{
		ArenaSize:       DefaultArenaSize,
		MinSize:         1,
		MaxSize:         int(math.Sqrt(DefaultArenaSize)),
		FreeProbability: 0.8,
		Seed:            1,
	}
}

// ErrBadConfig wraps every Validate failure.
var ErrBadConfig = errors.New("workload: bad config")

// Validate checks the parameter ranges.
func (c Config) Validate() error {
	switch {
	case c.ArenaSize <= 0:
		return fmt.Errorf("%w: arena size %d", ErrBadConfig, c.ArenaSize)
	case c.MinSize < 0 || c.MaxSize < c.MinSize:
		return fmt.Errorf("%w: size range [%d, %d]", ErrBadConfig, c.MinSize, c.MaxSize)
	case c.MaxSize > c.ArenaSize || c.MaxSize-c.MinSize == math.MaxInt:
		return fmt.Errorf("%w: max size %d exceeds arena size %d", ErrBadConfig, c.MaxSize, c.ArenaSize)
	case c.FreeProbability < 0 || c.FreeProbability > 1:
		return fmt.Errorf("%w: free probability %v outside [0,1]", ErrBadConfig, c.FreeProbability)
	case c.MaxSteps < 0:
		return fmt.Errorf("%w: max steps %d", ErrBadConfig, c.MaxSteps)
	}
	return nil
}
