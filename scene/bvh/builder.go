package bvh

import (
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/YitongTseo/WaterSimulationAndRendering/log"
	"github.com/YitongTseo/WaterSimulationAndRendering/types"
)

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis

	// Axes whose bbox side is shorter than this are not split.
	minSideLength float32 = 1e-3

	// Candidate splits are skipped once the split step drops below this.
	minSplitStep float32 = 1e-5

	// Number of split candidates evaluated per axis at the root. Deeper
	// levels evaluate proportionally fewer candidates.
	rootSplitCandidates = 1024
)

var (
	// A split scoring strategy that uses the surface area heuristic (SAH).
	SurfaceAreaHeuristic ScoreStrategy = surfaceAreaHeuristic{}
)

// The BoundedVolume interface is implemented by all surfaces that can be
// partitioned by the builder.
type BoundedVolume interface {
	BBox() [2]types.Vec3
	Center() types.Vec3
}

// A callback invoked whenever the builder emits a leaf. The callee is
// expected to store itemList and call leaf.SetItems with its position.
type LeafCallback func(leaf *Node, itemList []BoundedVolume)

// A split scoring strategy. Lower scores are better.
type ScoreStrategy interface {
	// Score splitting workList at splitPoint along axis.
	ScoreSplit(workList []BoundedVolume, splitAxis Axis, splitPoint float32) (leftCount, rightCount int, score float32)

	// Score keeping workList in a single node.
	ScorePartition(workList []BoundedVolume) (score float32)
}

type splitCandidate struct {
	axis       Axis
	splitPoint float32

	leftCount, rightCount int
	score                 float32
}

type stats struct {
	nodes    int
	leafs    int
	maxDepth int
}

type builder struct {
	logger log.Logger

	nodes         []Node
	leafCb        LeafCallback
	minLeafItems  int
	scoreStrategy ScoreStrategy
	workers       int

	stats stats
}

// Build a flattened BVH from a set of bounded volumes. Work lists with at
// most minLeafItems entries always become leaves. The root node is stored
// at index 0.
func Build(workList []BoundedVolume, minLeafItems int, leafCb LeafCallback, scoreStrategy ScoreStrategy) []Node {
	b := &builder{
		logger:        log.New("bvh"),
		nodes:         make([]Node, 0, 2*len(workList)),
		leafCb:        leafCb,
		minLeafItems:  minLeafItems,
		scoreStrategy: scoreStrategy,
		workers:       runtime.NumCPU(),
	}

	start := time.Now()
	b.partition(workList, 0)
	b.logger.Debugf(
		"built BVH over %d items in %d ms; maxDepth: %d, nodes: %d, leafs: %d",
		len(workList), time.Since(start).Nanoseconds()/1e6,
		b.stats.maxDepth, b.stats.nodes, b.stats.leafs,
	)
	return b.nodes
}

// Partition workList and return the index of the emitted node.
func (b *builder) partition(workList []BoundedVolume, depth int) uint32 {
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}

	bbox := Bounds(workList)
	node := Node{Min: bbox[0], Max: bbox[1]}

	if len(workList) <= b.minLeafItems {
		return b.createLeaf(&node, workList)
	}

	bestSplit := b.findSplit(workList, node, depth)
	if bestSplit == nil {
		return b.createLeaf(&node, workList)
	}

	leftWorkList := make([]BoundedVolume, 0, bestSplit.leftCount)
	rightWorkList := make([]BoundedVolume, 0, bestSplit.rightCount)
	for _, item := range workList {
		if item.Center()[bestSplit.axis] < bestSplit.splitPoint {
			leftWorkList = append(leftWorkList, item)
		} else {
			rightWorkList = append(rightWorkList, item)
		}
	}

	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, node)
	b.stats.nodes++

	leftNodeIndex := b.partition(leftWorkList, depth+1)
	rightNodeIndex := b.partition(rightWorkList, depth+1)
	b.nodes[nodeIndex].SetChildNodes(leftNodeIndex, rightNodeIndex)

	return uint32(nodeIndex)
}

// Score candidate splits along each axis in parallel and return the best
// one, or nil if no split improves on keeping the items together.
func (b *builder) findSplit(workList []BoundedVolume, node Node, depth int) *splitCandidate {
	candidates := make([]splitCandidate, 0)
	side := node.Max.Sub(node.Min)
	for axis := XAxis; axis <= ZAxis; axis++ {
		if side[axis] < minSideLength {
			continue
		}

		// Split steps become coarser the deeper we go
		splitStep := side[axis] / (float32(rootSplitCandidates) / float32(depth+1))
		if splitStep < minSplitStep {
			continue
		}

		for splitPoint := node.Min[axis] + splitStep; splitPoint < node.Max[axis]; splitPoint += splitStep {
			candidates = append(candidates, splitCandidate{axis: axis, splitPoint: splitPoint})
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	queue := make(chan int, len(candidates))
	for index := range candidates {
		queue <- index
	}
	close(queue)

	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range queue {
				c := &candidates[index]
				c.leftCount, c.rightCount, c.score = b.scoreStrategy.ScoreSplit(workList, c.axis, c.splitPoint)
			}
		}()
	}
	wg.Wait()

	bestScore := b.scoreStrategy.ScorePartition(workList)
	var bestSplit *splitCandidate
	for index := range candidates {
		if candidates[index].score < bestScore {
			bestScore = candidates[index].score
			bestSplit = &candidates[index]
		}
	}
	return bestSplit
}

func (b *builder) createLeaf(node *Node, workList []BoundedVolume) uint32 {
	b.leafCb(node, workList)

	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, *node)
	b.stats.leafs++

	return uint32(nodeIndex)
}

// Calculate the bounding box enclosing all items in workList.
func Bounds(workList []BoundedVolume) [2]types.Vec3 {
	bbox := [2]types.Vec3{
		{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
	for _, item := range workList {
		itemBBox := item.BBox()
		bbox[0] = types.MinVec3(bbox[0], itemBBox[0])
		bbox[1] = types.MaxVec3(bbox[1], itemBBox[1])
	}
	return bbox
}

type surfaceAreaHeuristic struct{}

// Score a split as:
//
// left count * left bbox area + right count * right bbox area.
//
// Splits that leave one side empty get the worst possible score.
func (h surfaceAreaHeuristic) ScoreSplit(workList []BoundedVolume, axis Axis, splitPoint float32) (leftCount, rightCount int, score float32) {
	lmin := types.Splat3(math.MaxFloat32)
	rmin := types.Splat3(math.MaxFloat32)
	lmax := types.Splat3(-math.MaxFloat32)
	rmax := types.Splat3(-math.MaxFloat32)

	for _, item := range workList {
		itemBBox := item.BBox()
		if item.Center()[axis] < splitPoint {
			leftCount++
			lmin = types.MinVec3(lmin, itemBBox[0])
			lmax = types.MaxVec3(lmax, itemBBox[1])
		} else {
			rightCount++
			rmin = types.MinVec3(rmin, itemBBox[0])
			rmax = types.MaxVec3(rmax, itemBBox[1])
		}
	}

	if leftCount == 0 || rightCount == 0 {
		return leftCount, rightCount, math.MaxFloat32
	}

	return leftCount, rightCount, float32(leftCount)*halfArea(lmax.Sub(lmin)) + float32(rightCount)*halfArea(rmax.Sub(rmin))
}

// Score an unsplit work list as count * bbox area.
func (h surfaceAreaHeuristic) ScorePartition(workList []BoundedVolume) (score float32) {
	if len(workList) == 0 {
		return math.MaxFloat32
	}

	bbox := Bounds(workList)
	return float32(len(workList)) * halfArea(bbox[1].Sub(bbox[0]))
}

func halfArea(side types.Vec3) float32 {
	return side[0]*side[1] + side[1]*side[2] + side[0]*side[2]
}
