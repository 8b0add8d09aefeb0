// Package arena provides bump-cursor region allocators: MemArena, a fixed
// capacity region tolerating a bounded number of out-of-order frees, and
// VMemArena, which grows by committing pages from a reserved virtual address
// range. Both hand out raw memory as memarena.MemBlock values; the typed
// adapters in the allocator package sit on top of them.
package arena

import (
	"unsafe"

	"github.com/memtools/memarena"
	"golang.org/x/exp/slog"
)

// Arena is the operation contract shared by MemArena and VMemArena. Consumers
// that combine an arena with a fallback use Owns to route frees back to
// whichever allocator produced a pointer.
type Arena interface {
	// Alloc carves size bytes out of the region and returns them as a
	// MemBlock. On exhaustion the returned block is null; that is not fatal
	// at this layer and callers compose their own fallback.
	Alloc(size int) memarena.MemBlock
	// Free returns a block to the arena. Only the most recent allocation is
	// reclaimed immediately; others are recorded for later coalescing, up to
	// the arena's pending-free tolerance.
	Free(block memarena.MemBlock)
	// TryRealloc resizes block in place without moving data and returns false
	// when it cannot. The caller then falls back to allocate/copy/free.
	TryRealloc(block memarena.MemBlock, newSize int) bool
	// Owns returns true iff ptr falls within the arena's backing region
	Owns(ptr unsafe.Pointer) bool
	// Reset retracts the cursor to zero and drops all bookkeeping, including
	// leaked out-of-order frees. Every outstanding block becomes invalid;
	// callers must ensure nothing is alive before resetting.
	Reset()
	// Validate performs internal consistency checks. When the implementation
	// is functioning correctly it should not be possible for this method to
	// return an error, but it may assist in diagnosing issues.
	Validate() error
	// AddStatistics sums this arena's current state into the provided
	// aggregate
	AddStatistics(stats *memarena.Statistics)
}

var _ Arena = (*MemArena)(nil)
var _ Arena = (*VMemArena)(nil)

const (
	// DefaultMaxPendingFrees is the out-of-order free tolerance a MemArena is
	// built with when WithMaxPendingFrees is not given
	DefaultMaxPendingFrees = 16

	// allocAlignment is applied to every allocation size, so block offsets
	// stay aligned for any Go element type
	allocAlignment uint = 16
)

type config struct {
	maxPendingFrees int
	logger          *slog.Logger
	pages           PageSource
}

// Option adjusts arena construction
type Option func(*config)

// WithMaxPendingFrees sets how many out-of-order frees the arena records for
// later coalescing before it starts leaking them until Reset. Zero means any
// out-of-order free is a usage error.
func WithMaxPendingFrees(count int) Option {
	return func(c *config) {
		c.maxPendingFrees = count
	}
}

// WithLogger sets the logger used for diagnostics such as pending-table
// overflow. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithPageSource sets the virtual-memory provider a VMemArena reserves and
// commits through. Defaults to SystemPageSource(). MemArena ignores it.
func WithPageSource(pages PageSource) Option {
	return func(c *config) {
		c.pages = pages
	}
}
