package scene

import (
	"math"
	"testing"

	"github.com/YitongTseo/WaterSimulationAndRendering/types"
)

func floorTriangle(mat *Material) *Triangle {
	return NewTriangle(
		[3]types.Vec3{{-1, 0, 1}, {1, 0, 1}, {0, 0, -1}},
		[3]types.Vec3{},
		mat,
	)
}

func TestTriangleIntersection(t *testing.T) {
	opaque := DefaultMaterial()
	twoSided := DefaultMaterial()
	twoSided.TwoSided = true

	type spec struct {
		mat    *Material
		origin types.Vec3
		dir    types.Vec3
		flags  IntersectFlag
		expHit bool
		expT   float32
	}
	specs := []spec{
		{opaque, types.Vec3{0, 1, 0}, types.Vec3{0, -1, 0}, 0, true, 1},
		{opaque, types.Vec3{0, -2, 0}, types.Vec3{0, 1, 0}, 0, false, 0},
		{opaque, types.Vec3{0, -2, 0}, types.Vec3{0, 1, 0}, DoNotCullBackfaces, true, 2},
		{twoSided, types.Vec3{0, -2, 0}, types.Vec3{0, 1, 0}, 0, true, 2},
		{WaterMaterial(), types.Vec3{0, -2, 0}, types.Vec3{0, 1, 0}, 0, true, 2},
		{opaque, types.Vec3{5, 1, 0}, types.Vec3{0, -1, 0}, 0, false, 0},
		{opaque, types.Vec3{0, 1, 0}, types.Vec3{1, 0, 0}, 0, false, 0},
	}

	for index, s := range specs {
		tri := floorTriangle(s.mat)
		ray := NewRay(s.origin, s.dir)
		dist, hit := tri.Intersect(&ray, s.flags)
		if hit != s.expHit {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", index, s.expHit, hit)
		}
		if hit && math.Abs(float64(dist-s.expT)) > 1e-5 {
			t.Fatalf("[spec %d] expected hit distance %f; got %f", index, s.expT, dist)
		}
	}
}

func TestTriangleRayRange(t *testing.T) {
	tri := floorTriangle(DefaultMaterial())
	ray := NewRay(types.Vec3{0, 1, 0}, types.Vec3{0, -1, 0})
	ray.MaxT = 0.5
	if _, hit := tri.Intersect(&ray, 0); hit {
		t.Fatal("expected hits beyond MaxT to be ignored")
	}
	ray.MaxT = 2
	ray.MinT = 1.5
	if _, hit := tri.Intersect(&ray, 0); hit {
		t.Fatal("expected hits before MinT to be ignored")
	}
}

func TestTriangleSurfel(t *testing.T) {
	tri := floorTriangle(DefaultMaterial())
	ray := NewRay(types.Vec3{0.2, 3, 0}, types.Vec3{0, -1, 0})
	dist, hit := tri.Intersect(&ray, 0)
	if !hit {
		t.Fatal("expected ray to hit the triangle")
	}

	surfel := tri.Surfel(&ray, dist)
	if !types.ApproxEqual(surfel.Position, types.Vec3{0.2, 0, 0}, 1e-5) {
		t.Fatalf("expected surfel position (0.2, 0, 0); got %v", surfel.Position)
	}
	if !types.ApproxEqual(surfel.GeometricNormal, types.Vec3{0, 1, 0}, 1e-5) {
		t.Fatalf("expected geometric normal (0, 1, 0); got %v", surfel.GeometricNormal)
	}
	if !types.ApproxEqual(surfel.ShadingNormal, types.Vec3{0, 1, 0}, 1e-5) {
		t.Fatalf("expected shading normal (0, 1, 0); got %v", surfel.ShadingNormal)
	}
	if surfel.T != dist {
		t.Fatalf("expected surfel T to be %f; got %f", dist, surfel.T)
	}
}

func TestSphereIntersection(t *testing.T) {
	opaque := DefaultMaterial()
	twoSided := DefaultMaterial()
	twoSided.TwoSided = true

	type spec struct {
		mat       *Material
		origin    types.Vec3
		dir       types.Vec3
		flags     IntersectFlag
		expHit    bool
		expT      float32
		expNormal types.Vec3
	}
	specs := []spec{
		{opaque, types.Vec3{0, 0, 0}, types.Vec3{0, 0, -1}, 0, true, 4, types.Vec3{0, 0, 1}},
		// Rays starting inside hit the far side; the normal still points out
		{twoSided, types.Vec3{0, 0, -5}, types.Vec3{0, 0, -1}, 0, true, 1, types.Vec3{0, 0, -1}},
		{opaque, types.Vec3{0, 0, -5}, types.Vec3{0, 0, -1}, DoNotCullBackfaces, true, 1, types.Vec3{0, 0, -1}},
		{opaque, types.Vec3{0, 0, -5}, types.Vec3{0, 0, -1}, 0, false, 0, types.Vec3{}},
		{FoamMaterial(0.5, 1), types.Vec3{0, 0, -5.5}, types.Vec3{0, 0, 1}, 0, false, 0, types.Vec3{}},
		{WaterMaterial(), types.Vec3{0, 0, -5.5}, types.Vec3{0, 0, 1}, 0, true, 1.5, types.Vec3{0, 0, 1}},
		{opaque, types.Vec3{0, 0, 0}, types.Vec3{0, 0, 1}, 0, false, 0, types.Vec3{}},
		{opaque, types.Vec3{0, 2, 0}, types.Vec3{0, 0, -1}, 0, false, 0, types.Vec3{}},
	}

	for index, s := range specs {
		sphere := NewSphere(types.Vec3{0, 0, -5}, 1, s.mat)
		ray := NewRay(s.origin, s.dir)
		dist, hit := sphere.Intersect(&ray, s.flags)
		if hit != s.expHit {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", index, s.expHit, hit)
		}
		if !hit {
			continue
		}
		if math.Abs(float64(dist-s.expT)) > 1e-4 {
			t.Fatalf("[spec %d] expected hit distance %f; got %f", index, s.expT, dist)
		}
		surfel := sphere.Surfel(&ray, dist)
		if !types.ApproxEqual(surfel.GeometricNormal, s.expNormal, 1e-4) {
			t.Fatalf("[spec %d] expected normal %v; got %v", index, s.expNormal, surfel.GeometricNormal)
		}
	}
}

func TestSurfaceBounds(t *testing.T) {
	tri := floorTriangle(DefaultMaterial())
	bbox := tri.BBox()
	if bbox[0] != (types.Vec3{-1, 0, -1}) || bbox[1] != (types.Vec3{1, 0, 1}) {
		t.Fatalf("expected triangle bbox [(-1,0,-1) (1,0,1)]; got %v", bbox)
	}

	sphere := NewSphere(types.Vec3{1, 2, 3}, 0.5, DefaultMaterial())
	bbox = sphere.BBox()
	if bbox[0] != (types.Vec3{0.5, 1.5, 2.5}) || bbox[1] != (types.Vec3{1.5, 2.5, 3.5}) {
		t.Fatalf("expected sphere bbox [(0.5,1.5,2.5) (1.5,2.5,3.5)]; got %v", bbox)
	}
	if sphere.Center() != (types.Vec3{1, 2, 3}) {
		t.Fatalf("expected sphere center (1, 2, 3); got %v", sphere.Center())
	}
}
