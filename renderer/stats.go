package renderer

import (
	"time"

	"github.com/YitongTseo/WaterSimulationAndRendering/tracer"
)

type FrameStats struct {
	// Frame dims and sample count.
	FrameW       int
	FrameH       int
	RaysPerPixel int

	// Per-stage timings in execution order.
	Stages []tracer.StageStats

	// Total render time for entire frame.
	RenderTime time.Duration
}
