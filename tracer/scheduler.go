package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split [0, size) into contiguous blocks and assign them to the pool
	// of tracers.
	//
	// This function returns the block size assignment for each tracer
	// in the input list. Assignments always add up to size.
	Schedule(tracers []Tracer, size uint32) []uint32
}

// The naive scheduler splits work proportionally to each tracer's speed
// estimate.
type naiveScheduler struct {
	blockAssignment []uint32
}

// Create a new naive scheduler instance
func NaiveScheduler() BlockScheduler {
	return &naiveScheduler{}
}

func (sch *naiveScheduler) Schedule(tracers []Tracer, size uint32) []uint32 {
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = make([]uint32, len(tracers))
	}

	var total float64 = 0.0
	for _, tr := range tracers {
		total += float64(tr.SpeedEstimate())
	}

	scaler := float64(size) / total
	for idx, tr := range tracers {
		sch.blockAssignment[idx] = uint32(math.Max(1.0, math.Floor(float64(tr.SpeedEstimate())*scaler)))
	}

	balance(sch.blockAssignment, size)
	return sch.blockAssignment
}

// The perfect scheduler assumes that the volume of work between two
// subsequent invocations is approximately the same.
type perfectScheduler struct {
	naive           naiveScheduler
	blockAssignment []uint32
}

// Create a new perfect scheduler instance
func PerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

// Split work into blocks of variable size and assign to the pool of tracers
// using feedback collected from previous invocations.
//
// When previous block information is available the scheduler uses the
// following formula for estimating the workload for tracer w and block i+1:
// w_i, b_i+1 = (blockSize,w_i / time,w_i) / Σ(blockSize_i-1 / time,i-1)
func (sch *perfectScheduler) Schedule(tracers []Tracer, size uint32) []uint32 {
	// If this is the first time we try to schedule or the number of tracers
	// has changed we need to reset the block assignments
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = make([]uint32, len(tracers))
		copy(sch.blockAssignment, sch.naive.Schedule(tracers, size))
		return sch.blockAssignment
	}

	// Use last block statistics
	var total float64 = 0.0
	rates := make([]float64, len(tracers))
	for idx, tr := range tracers {
		stats := tr.Stats()
		blockTime := math.Max(1.0, float64(stats.BlockTime))
		rates[idx] = float64(stats.BlockSize) / blockTime
		total += rates[idx]
	}

	// No usable feedback; fall back to speed estimates
	if total == 0 {
		copy(sch.blockAssignment, sch.naive.Schedule(tracers, size))
		return sch.blockAssignment
	}

	scaler := float64(size) / total
	for idx := range tracers {
		sch.blockAssignment[idx] = uint32(math.Max(1.0, math.Floor(rates[idx]*scaler)))
	}

	balance(sch.blockAssignment, size)
	return sch.blockAssignment
}

// Adjust block assignments so they add up to size. Missing items are
// appended to the first tracer; extra items are taken from the last ones.
func balance(blockAssignment []uint32, size uint32) {
	var scheduled uint32 = 0
	for _, blockSize := range blockAssignment {
		scheduled += blockSize
	}

	if scheduled <= size {
		blockAssignment[0] += size - scheduled
		return
	}

	extra := scheduled - size
	for idx := len(blockAssignment) - 1; idx >= 0 && extra > 0; idx-- {
		take := blockAssignment[idx]
		if take > extra {
			take = extra
		}
		blockAssignment[idx] -= take
		extra -= take
	}
}
