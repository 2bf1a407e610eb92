package scene

import (
	"github.com/YitongTseo/WaterSimulationAndRendering/scene/bvh"
	"github.com/YitongTseo/WaterSimulationAndRendering/types"
)

type IntersectFlag uint8

const (
	// Consecutive rays are spatially coherent; visit the child nearest
	// to the ray origin first.
	CoherentRayHint IntersectFlag = 1 << iota

	// Stop at the first hit; no surfel is needed.
	OcclusionTestOnly

	// Report hits on the back side of single-sided triangles.
	DoNotCullBackfaces
)

const (
	minLeafItems       = 4
	traversalStackSize = 64
)

// A BVH over a fixed set of posed surfaces.
type Tree struct {
	nodes    []bvh.Node
	surfaces []Surface
}

// Build a tree over all surfaces.
func NewTree(surfaces []Surface) *Tree {
	tree := &Tree{
		surfaces: make([]Surface, 0, len(surfaces)),
	}
	if len(surfaces) == 0 {
		return tree
	}

	workList := make([]bvh.BoundedVolume, len(surfaces))
	for i, s := range surfaces {
		workList[i] = s
	}

	tree.nodes = bvh.Build(workList, minLeafItems, func(leaf *bvh.Node, itemList []bvh.BoundedVolume) {
		leaf.SetItems(uint32(len(tree.surfaces)), uint32(len(itemList)))
		for _, item := range itemList {
			tree.surfaces = append(tree.surfaces, item.(Surface))
		}
	}, bvh.SurfaceAreaHeuristic)

	return tree
}

// Build a tree over the surfaces that do not transmit light. Used for
// shadow tests so that transmissive media never block direct light.
func NewOpaqueTree(surfaces []Surface) *Tree {
	opaque := make([]Surface, 0, len(surfaces))
	for _, s := range surfaces {
		if !s.Material().HasTransmission() {
			opaque = append(opaque, s)
		}
	}
	return NewTree(opaque)
}

// Number of surfaces in the tree.
func (t *Tree) Size() int {
	return len(t.surfaces)
}

// Get the closest surfel along ray or nil if the ray escapes.
func (t *Tree) Intersect(ray *Ray, flags IntersectFlag) *Surfel {
	hit, dist := t.traverse(ray, flags&^OcclusionTestOnly)
	if hit == nil {
		return nil
	}
	return hit.Surfel(ray, dist)
}

// Returns true if anything lies along ray within its parametric range.
func (t *Tree) Occluded(ray *Ray, flags IntersectFlag) bool {
	hit, _ := t.traverse(ray, flags|OcclusionTestOnly)
	return hit != nil
}

func (t *Tree) traverse(ray *Ray, flags IntersectFlag) (Surface, float32) {
	if len(t.nodes) == 0 || ray.MaxT <= ray.MinT {
		return nil, 0
	}

	invDir := types.Vec3{1 / ray.Dir[0], 1 / ray.Dir[1], 1 / ray.Dir[2]}
	query := *ray

	var closest Surface
	stack := make([]uint32, 1, traversalStackSize)

	for len(stack) > 0 {
		node := &t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if _, hit := node.Intersect(query.Origin, invDir, query.MinT, query.MaxT); !hit {
			continue
		}

		if node.IsLeaf() {
			first, count := node.Items()
			for _, surface := range t.surfaces[first : first+count] {
				dist, hit := surface.Intersect(&query, flags)
				if !hit {
					continue
				}
				if flags&OcclusionTestOnly != 0 {
					return surface, dist
				}
				closest = surface
				query.MaxT = dist
			}
			continue
		}

		// Push the far child first so the near one is popped next
		left, right := node.ChildNodes()
		if flags&CoherentRayHint != 0 && t.nearChildIsRight(left, right, query.Origin) {
			left, right = right, left
		}
		stack = append(stack, right, left)
	}

	return closest, query.MaxT
}

func (t *Tree) nearChildIsRight(left, right uint32, origin types.Vec3) bool {
	l, r := &t.nodes[left], &t.nodes[right]
	lc := l.Min.Add(l.Max).Mul(0.5).Sub(origin)
	rc := r.Min.Add(r.Max).Mul(0.5).Sub(origin)
	return rc.Dot(rc) < lc.Dot(lc)
}
