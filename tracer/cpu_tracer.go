package tracer

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/YitongTseo/WaterSimulationAndRendering/log"
)

type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// Random source owned by the worker go-routine.
	rng *rand.Rand

	// A channel for receiving block requests from the pool.
	blockReqChan chan BlockRequest

	// A channel for resetting the random source between blocks.
	seedChan chan int64

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last processed block.
	stats *Stats
}

// Create a new cpu tracer and start its worker go-routine.
func NewCpuTracer(id string, seed int64) Tracer {
	tr := &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		rng:          rand.New(rand.NewSource(seed)),
		blockReqChan: make(chan BlockRequest, 1),
		seedChan:     make(chan int64),
		stats:        &Stats{},
	}

	tr.startWorker()
	return tr
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// All cpu tracers are assumed to run at the same speed.
func (tr *cpuTracer) SpeedEstimate() float32 {
	return 1.0
}

// Enqueue block request.
func (tr *cpuTracer) Enqueue(blockReq BlockRequest) {
	tr.blockReqChan <- blockReq
}

// Reset the random source. The new seed applies to every block enqueued
// after this call returns.
func (tr *cpuTracer) Reseed(seed int64) {
	tr.seedChan <- seed
}

// Retrieve last block statistics.
func (tr *cpuTracer) Stats() *Stats {
	return tr.stats
}

// Shutdown tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	if tr.closeChan == nil {
		return
	}

	tr.closeChan <- struct{}{}

	// wait for worker to ack close and shutdown channel
	<-tr.closeChan
	close(tr.closeChan)
	tr.closeChan = nil
	tr.wg.Wait()
}

// Spawn a go-routine to process block requests.
func (tr *cpuTracer) startWorker() {
	// Worker already running
	if tr.closeChan != nil {
		return
	}

	tr.closeChan = make(chan struct{}, 0)
	readyChan := make(chan struct{}, 0)
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		var blockReq BlockRequest
		var startTime time.Time
		close(readyChan)
		for {
			select {
			case blockReq = <-tr.blockReqChan:
				startTime = time.Now()
				end := int(blockReq.BlockStart + blockReq.BlockSize)
				for index := int(blockReq.BlockStart); index < end; index++ {
					blockReq.Kernel(tr.rng, index)
				}

				// Update stats
				tr.stats.BlockSize = blockReq.BlockSize
				tr.stats.BlockTime = time.Since(startTime)

				blockReq.DoneChan <- blockReq.BlockSize
			case seed := <-tr.seedChan:
				tr.rng.Seed(seed)
			case <-tr.closeChan:
				// Ack close
				tr.closeChan <- struct{}{}
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}
