package tracer

import (
	"math/rand"
	"time"
)

// A kernel processes a single buffer index. Each tracer passes its own
// random source so kernels never share generator state.
type Kernel func(rng *rand.Rand, index int)

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Block start index and size.
	BlockStart uint32
	BlockSize  uint32

	// The kernel to run for each index in the block.
	Kernel Kernel

	// A channel to signal on block completion with the number of processed items.
	DoneChan chan<- uint32
}

// Tracer statistics.
type Stats struct {
	// The processed block size.
	BlockSize uint32

	// The time for processing this block.
	BlockTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get the tracers computation speed estimate compared to a
	// baseline single core implementation.
	SpeedEstimate() float32

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Reset the tracer's random source.
	Reseed(int64)

	// Retrieve last block statistics.
	Stats() *Stats

	// Shutdown tracer.
	Close()
}
