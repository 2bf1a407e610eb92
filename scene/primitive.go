package scene

import (
	"math"

	"github.com/YitongTseo/WaterSimulationAndRendering/types"
)

const intersectEpsilon float32 = 1e-7

// A posed surface that can be stored in a Tree.
type Surface interface {
	BBox() [2]types.Vec3
	Center() types.Vec3
	Material() *Material

	// Test ray for an intersection within [ray.MinT, ray.MaxT]. Returns
	// the hit distance.
	Intersect(ray *Ray, flags IntersectFlag) (float32, bool)

	// Build the surfel for a hit at distance t reported by Intersect.
	Surfel(ray *Ray, t float32) *Surfel
}

// A triangle with optional per-vertex normals.
type Triangle struct {
	Vertices [3]types.Vec3
	Normals  [3]types.Vec3

	mat    *Material
	edge1  types.Vec3
	edge2  types.Vec3
	normal types.Vec3
	bbox   [2]types.Vec3
}

// Create a triangle. Vertex normals that are zero are replaced by the face
// normal computed from the counter-clockwise winding.
func NewTriangle(vertices, normals [3]types.Vec3, mat *Material) *Triangle {
	tri := &Triangle{
		Vertices: vertices,
		Normals:  normals,
		mat:      mat,
		edge1:    vertices[1].Sub(vertices[0]),
		edge2:    vertices[2].Sub(vertices[0]),
	}
	tri.normal = tri.edge1.Cross(tri.edge2).Normalize()
	for i := range tri.Normals {
		if tri.Normals[i].IsZero() {
			tri.Normals[i] = tri.normal
		}
	}

	tri.bbox = [2]types.Vec3{vertices[0], vertices[0]}
	for _, v := range vertices[1:] {
		tri.bbox[0] = types.MinVec3(tri.bbox[0], v)
		tri.bbox[1] = types.MaxVec3(tri.bbox[1], v)
	}
	return tri
}

func (tri *Triangle) BBox() [2]types.Vec3 {
	return tri.bbox
}

func (tri *Triangle) Center() types.Vec3 {
	return tri.Vertices[0].Add(tri.Vertices[1]).Add(tri.Vertices[2]).Mul(1.0 / 3.0)
}

func (tri *Triangle) Material() *Material {
	return tri.mat
}

// Möller-Trumbore intersection.
func (tri *Triangle) Intersect(ray *Ray, flags IntersectFlag) (float32, bool) {
	t, _, _, ok := tri.intersect(ray, flags)
	return t, ok
}

func (tri *Triangle) Surfel(ray *Ray, t float32) *Surfel {
	_, u, v, _ := tri.intersect(ray, DoNotCullBackfaces)
	w := 1 - u - v
	shadingNormal := tri.Normals[0].Mul(w).Add(tri.Normals[1].Mul(u)).Add(tri.Normals[2].Mul(v)).Normalize()
	if shadingNormal.IsZero() {
		shadingNormal = tri.normal
	}

	return &Surfel{
		Position:        ray.At(t),
		GeometricNormal: tri.normal,
		ShadingNormal:   shadingNormal,
		T:               t,
		Material:        tri.mat,
	}
}

func (tri *Triangle) intersect(ray *Ray, flags IntersectFlag) (t, u, v float32, ok bool) {
	pvec := ray.Dir.Cross(tri.edge2)
	det := tri.edge1.Dot(pvec)

	// A negative determinant means we are looking at the back face
	cull := flags&DoNotCullBackfaces == 0 && !tri.mat.TwoSided && !tri.mat.HasTransmission()
	if cull && det < intersectEpsilon {
		return 0, 0, 0, false
	}
	if det > -intersectEpsilon && det < intersectEpsilon {
		return 0, 0, 0, false
	}

	invDet := 1.0 / det
	tvec := ray.Origin.Sub(tri.Vertices[0])
	u = tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}

	qvec := tvec.Cross(tri.edge1)
	v = ray.Dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}

	t = tri.edge2.Dot(qvec) * invDet
	if t < ray.MinT || t > ray.MaxT {
		return 0, 0, 0, false
	}
	return t, u, v, true
}

// A sphere. Foam particles are rendered as spheres.
type Sphere struct {
	Origin types.Vec3
	Radius float32

	mat *Material
}

func NewSphere(origin types.Vec3, radius float32, mat *Material) *Sphere {
	return &Sphere{
		Origin: origin,
		Radius: radius,
		mat:    mat,
	}
}

func (s *Sphere) BBox() [2]types.Vec3 {
	r := types.Splat3(s.Radius)
	return [2]types.Vec3{s.Origin.Sub(r), s.Origin.Add(r)}
}

func (s *Sphere) Center() types.Vec3 {
	return s.Origin
}

func (s *Sphere) Material() *Material {
	return s.mat
}

// Rays starting inside a two-sided sphere hit the far side. Single-sided
// spheres only report hits on entry unless backface culling is disabled.
func (s *Sphere) Intersect(ray *Ray, flags IntersectFlag) (float32, bool) {
	oc := ray.Origin.Sub(s.Origin)
	a := ray.Dir.Dot(ray.Dir)
	halfB := oc.Dot(ray.Dir)
	c := oc.Dot(oc) - s.Radius*s.Radius

	disc := halfB*halfB - a*c
	if disc < 0 || a == 0 {
		return 0, false
	}

	sqrtDisc := float32(math.Sqrt(float64(disc)))
	roots := [2]float32{(-halfB - sqrtDisc) / a, (-halfB + sqrtDisc) / a}
	if t := roots[0]; t >= ray.MinT && t <= ray.MaxT {
		return t, true
	}

	cull := flags&DoNotCullBackfaces == 0 && !s.mat.TwoSided
	if t := roots[1]; !cull && t >= ray.MinT && t <= ray.MaxT {
		return t, true
	}
	return 0, false
}

func (s *Sphere) Surfel(ray *Ray, t float32) *Surfel {
	pos := ray.At(t)
	normal := pos.Sub(s.Origin).Normalize()
	return &Surfel{
		Position:        pos,
		GeometricNormal: normal,
		ShadingNormal:   normal,
		T:               t,
		Material:        s.mat,
	}
}
