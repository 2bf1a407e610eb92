package scene

import (
	"math/rand"
	"testing"

	"github.com/YitongTseo/WaterSimulationAndRendering/types"
)

func randomVec3(rng *rand.Rand, scale float32) types.Vec3 {
	return types.Vec3{
		(rng.Float32()*2 - 1) * scale,
		(rng.Float32()*2 - 1) * scale,
		(rng.Float32()*2 - 1) * scale,
	}
}

func randomSurfaces(rng *rand.Rand, count int) []Surface {
	water := WaterMaterial()
	surfaces := make([]Surface, 0, count)
	for i := 0; i < count; i++ {
		mat := DefaultMaterial()
		if i%3 == 0 {
			mat = water
		}

		center := randomVec3(rng, 10)
		if i%4 == 0 {
			surfaces = append(surfaces, NewSphere(center, 0.2+rng.Float32(), mat))
			continue
		}
		surfaces = append(surfaces, NewTriangle(
			[3]types.Vec3{center, center.Add(randomVec3(rng, 2)), center.Add(randomVec3(rng, 2))},
			[3]types.Vec3{},
			mat,
		))
	}
	return surfaces
}

func bruteForceIntersect(surfaces []Surface, ray Ray, flags IntersectFlag) (Surface, float32) {
	var closest Surface
	for _, s := range surfaces {
		if dist, hit := s.Intersect(&ray, flags); hit {
			closest = s
			ray.MaxT = dist
		}
	}
	return closest, ray.MaxT
}

func TestTreeMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	surfaces := randomSurfaces(rng, 200)
	tree := NewTree(surfaces)

	if tree.Size() != len(surfaces) {
		t.Fatalf("expected tree to contain %d surfaces; got %d", len(surfaces), tree.Size())
	}

	for _, flags := range []IntersectFlag{0, CoherentRayHint, DoNotCullBackfaces} {
		for i := 0; i < 500; i++ {
			ray := NewRay(randomVec3(rng, 15), randomVec3(rng, 1).Normalize())
			if ray.Dir.IsZero() {
				continue
			}

			expSurface, expDist := bruteForceIntersect(surfaces, ray, flags)
			surfel := tree.Intersect(&ray, flags)
			if expSurface == nil {
				if surfel != nil {
					t.Fatalf("[flags %d, ray %d] expected ray to miss; got hit at t=%f", flags, i, surfel.T)
				}
				continue
			}

			if surfel == nil {
				t.Fatalf("[flags %d, ray %d] expected hit at t=%f; got miss", flags, i, expDist)
			}
			if surfel.T != expDist {
				t.Fatalf("[flags %d, ray %d] expected closest hit at t=%f; got %f", flags, i, expDist, surfel.T)
			}
			if !tree.Occluded(&ray, flags) {
				t.Fatalf("[flags %d, ray %d] expected ray to be occluded", flags, i)
			}
		}
	}
}

func TestOpaqueTree(t *testing.T) {
	floor := floorTriangle(DefaultMaterial())
	surfaces := []Surface{
		NewSphere(types.Vec3{0, 2, 0}, 0.5, WaterMaterial()),
		NewSphere(types.Vec3{0, 4, 0}, 0.5, FoamMaterial(0.5, 0.5)),
		floor,
	}

	tree := NewOpaqueTree(surfaces)
	if tree.Size() != 1 {
		t.Fatalf("expected opaque tree to contain 1 surface; got %d", tree.Size())
	}

	ray := NewRay(types.Vec3{0, 10, 0}, types.Vec3{0, -1, 0})
	surfel := tree.Intersect(&ray, CoherentRayHint)
	if surfel == nil || surfel.Material != floor.Material() {
		t.Fatal("expected opaque tree to ignore transmissive surfaces")
	}

	full := NewTree(surfaces)
	surfel = full.Intersect(&ray, CoherentRayHint)
	if surfel == nil || !surfel.IsFoam() {
		t.Fatal("expected full tree to report the foam particle as the closest hit")
	}

	// Shadow rays stop short of the receiver
	ray.MaxT = 9.9
	if tree.Occluded(&ray, OcclusionTestOnly|DoNotCullBackfaces) {
		t.Fatal("expected ray stopping short of the floor not to be occluded")
	}
}

func TestEmptyTree(t *testing.T) {
	tree := NewOpaqueTree([]Surface{NewSphere(types.Vec3{}, 1, WaterMaterial())})
	if tree.Size() != 0 {
		t.Fatalf("expected empty tree; got %d surfaces", tree.Size())
	}

	ray := NewRay(types.Vec3{0, 5, 0}, types.Vec3{0, -1, 0})
	if tree.Intersect(&ray, 0) != nil || tree.Occluded(&ray, 0) {
		t.Fatal("expected queries against an empty tree to miss")
	}
}
