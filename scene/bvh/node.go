package bvh

import "github.com/YitongTseo/WaterSimulationAndRendering/types"

// A flattened BVH node. The two int32 fields are interpreted according to
// the node type:
//
// - inner nodes: LData and RData are both > 0 and index the child nodes
// - leaves: LData is <= 0 and stores the negated index of the first item;
// RData stores the item count
type Node struct {
	Min   types.Vec3
	LData int32

	Max   types.Vec3
	RData int32
}

// Set left and right child node indices.
func (n *Node) SetChildNodes(left, right uint32) {
	n.LData = int32(left)
	n.RData = int32(right)
}

// Get left and right child node indices.
func (n *Node) ChildNodes() (left, right uint32) {
	return uint32(n.LData), uint32(n.RData)
}

// Set first item index and count.
func (n *Node) SetItems(first, count uint32) {
	n.LData = -int32(first)
	n.RData = int32(count)
}

// Get first item index and count.
func (n *Node) Items() (first, count uint32) {
	return uint32(-n.LData), uint32(n.RData)
}

func (n *Node) IsLeaf() bool {
	return n.LData <= 0
}

// Intersect the node bounds with a ray using the slab test. invDir holds the
// reciprocal ray direction. Returns the entry distance and whether the box
// is hit within [minT, maxT].
func (n *Node) Intersect(origin, invDir types.Vec3, minT, maxT float32) (float32, bool) {
	for axis := 0; axis < 3; axis++ {
		t0 := (n.Min[axis] - origin[axis]) * invDir[axis]
		t1 := (n.Max[axis] - origin[axis]) * invDir[axis]
		if invDir[axis] < 0 {
			t0, t1 = t1, t0
		}
		// NaN bounds (0 * inf) leave the interval untouched
		if t0 > minT {
			minT = t0
		}
		if t1 < maxT {
			maxT = t1
		}
		if maxT < minT {
			return 0, false
		}
	}
	return minT, true
}
