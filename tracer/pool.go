package tracer

import (
	"fmt"
	"runtime"
	"time"

	"github.com/YitongTseo/WaterSimulationAndRendering/log"
)

// Accumulated timing information for a named stage.
type StageStats struct {
	Name        string
	Invocations int
	TotalTime   time.Duration
}

// A pool of tracers that executes kernels over index ranges. Each call to
// Run is a barrier: it returns only after every index has been processed.
type Pool struct {
	logger log.Logger

	tracers   []Tracer
	scheduler BlockScheduler

	doneChan chan uint32

	stageIndex map[string]int
	stageStats []StageStats
}

// Create a pool with the given number of cpu tracers. A non-positive worker
// count selects one tracer per available cpu. Tracer i seeds its random
// source with seed + i.
func NewPool(workers int, seed int64, scheduler BlockScheduler) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if scheduler == nil {
		scheduler = NaiveScheduler()
	}

	pool := &Pool{
		logger:     log.New("tracer pool"),
		tracers:    make([]Tracer, workers),
		scheduler:  scheduler,
		doneChan:   make(chan uint32, workers),
		stageIndex: make(map[string]int, 0),
		stageStats: make([]StageStats, 0),
	}

	for idx := range pool.tracers {
		pool.tracers[idx] = NewCpuTracer(fmt.Sprintf("cpu-%d", idx), seed+int64(idx))
	}

	pool.logger.Infof("started %d tracers", workers)
	return pool
}

// Number of tracers in the pool.
func (p *Pool) Size() int {
	return len(p.tracers)
}

// Reset the random sources of all tracers. Tracer i is seeded with seed + i.
func (p *Pool) Reseed(seed int64) {
	for idx, tr := range p.tracers {
		tr.Reseed(seed + int64(idx))
	}
}

// Run kernel for every index in [0, n) and wait for all tracers to finish.
func (p *Pool) Run(stage string, n int, kernel Kernel) {
	start := time.Now()
	defer p.recordStage(stage, start)

	if n <= 0 {
		return
	}

	blockAssignment := p.scheduler.Schedule(p.tracers, uint32(n))

	var blockStart uint32 = 0
	pending := 0
	for idx, tr := range p.tracers {
		if blockAssignment[idx] == 0 {
			continue
		}

		tr.Enqueue(BlockRequest{
			BlockStart: blockStart,
			BlockSize:  blockAssignment[idx],
			Kernel:     kernel,
			DoneChan:   p.doneChan,
		})
		blockStart += blockAssignment[idx]
		pending++
	}

	for ; pending > 0; pending-- {
		<-p.doneChan
	}
}

// Get per-stage statistics in the order stages were first run.
func (p *Pool) Stats() []StageStats {
	stats := make([]StageStats, len(p.stageStats))
	copy(stats, p.stageStats)
	return stats
}

// Clear collected stage statistics.
func (p *Pool) ResetStats() {
	p.stageIndex = make(map[string]int, 0)
	p.stageStats = p.stageStats[:0]
}

// Shutdown all tracers.
func (p *Pool) Close() {
	for _, tr := range p.tracers {
		tr.Close()
	}
	p.logger.Debugf("shut down %d tracers", len(p.tracers))
}

func (p *Pool) recordStage(stage string, start time.Time) {
	idx, exists := p.stageIndex[stage]
	if !exists {
		p.stageStats = append(p.stageStats, StageStats{Name: stage})
		idx = len(p.stageStats) - 1
		p.stageIndex[stage] = idx
	}

	p.stageStats[idx].Invocations++
	p.stageStats[idx].TotalTime += time.Since(start)
}
