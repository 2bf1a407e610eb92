package tracer

import (
	"testing"
	"time"
)

func TestNaiveScheduler(t *testing.T) {
	type spec struct {
		speed1   float32
		speed2   float32
		size     uint32
		expRows1 uint32
		expRows2 uint32
	}
	specs := []spec{
		{1, 2, 10, 4, 6},
		{2, 1, 10, 7, 3},
		{1, 1000, 10, 1, 9},
		{1, 1, 1, 1, 0},
		{1, 1, 0, 0, 0},
	}

	for index, s := range specs {
		tr1 := makeMockTracer("mock-1", s.speed1)
		tr2 := makeMockTracer("mock-2", s.speed2)
		tracers := []Tracer{tr1, tr2}

		sch := NaiveScheduler()
		blockAssignment := sch.Schedule(tracers, s.size)

		if blockAssignment[0] != s.expRows1 {
			t.Fatalf("[spec %d] expected tracer 0 to be assigned %d items; got %d", index, s.expRows1, blockAssignment[0])
		}

		if blockAssignment[1] != s.expRows2 {
			t.Fatalf("[spec %d] expected tracer 1 to be assigned %d items; got %d", index, s.expRows2, blockAssignment[1])
		}
	}
}

func TestPerfectScheduler(t *testing.T) {
	type spec struct {
		size     uint32
		bTime1   time.Duration
		bTime2   time.Duration
		expRows1 uint32
		expRows2 uint32
	}
	specs := []spec{
		// First call always behaves like the naive scheduler
		{10, time.Duration(1), time.Duration(5), 5, 5},
		// Second call should use the block times to assign items
		{10, time.Duration(1), time.Duration(5), 9, 1},
		// This time tracer 2 performed much better
		{10, time.Duration(5), time.Duration(1), 7, 3},
	}

	// Tracers have same speed
	tr1 := makeMockTracer("mock-1", 1)
	tr2 := makeMockTracer("mock-2", 1)
	tracers := []Tracer{tr1, tr2}

	sch := PerfectScheduler()
	for index, s := range specs {
		tr1.stats.BlockTime = s.bTime1
		tr2.stats.BlockTime = s.bTime2

		blockAssignment := sch.Schedule(tracers, s.size)

		if blockAssignment[0] != s.expRows1 {
			t.Fatalf("[spec %d] expected tracer 0 to be assigned %d items; got %d", index, s.expRows1, blockAssignment[0])
		}

		if blockAssignment[1] != s.expRows2 {
			t.Fatalf("[spec %d] expected tracer 1 to be assigned %d items; got %d", index, s.expRows2, blockAssignment[1])
		}

		tr1.stats.BlockSize = blockAssignment[0]
		tr2.stats.BlockSize = blockAssignment[1]
	}
}

func TestBalance(t *testing.T) {
	type spec struct {
		in   []uint32
		size uint32
		exp  []uint32
	}
	specs := []spec{
		{[]uint32{1, 1, 1}, 5, []uint32{3, 1, 1}},
		{[]uint32{1, 1, 1, 1}, 2, []uint32{1, 1, 0, 0}},
		{[]uint32{4, 3}, 5, []uint32{4, 1}},
	}

	for index, s := range specs {
		balance(s.in, s.size)
		for idx := range s.exp {
			if s.in[idx] != s.exp[idx] {
				t.Fatalf("[spec %d] expected balanced assignment %v; got %v", index, s.exp, s.in)
			}
		}
	}
}

type mockTracer struct {
	id    string
	speed float32
	stats *Stats
}

func makeMockTracer(id string, speed float32) *mockTracer {
	return &mockTracer{
		id:    id,
		speed: speed,
		stats: &Stats{},
	}
}

func (mt *mockTracer) Id() string {
	return mt.id
}

func (mt *mockTracer) SpeedEstimate() float32 {
	return mt.speed
}

func (mt *mockTracer) Close() {
}

func (mt *mockTracer) Enqueue(_ BlockRequest) {
}

func (mt *mockTracer) Reseed(_ int64) {
}

func (mt *mockTracer) Stats() *Stats {
	return mt.stats
}
