package scene

import (
	"fmt"
	"math"

	"github.com/YitongTseo/WaterSimulationAndRendering/types"
)

// A ray segment covering the parametric range [MinT, MaxT].
type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3
	MinT   float32
	MaxT   float32
}

// Create an unbounded ray.
func NewRay(origin, dir types.Vec3) Ray {
	return Ray{
		Origin: origin,
		Dir:    dir,
		MinT:   0,
		MaxT:   math.MaxFloat32,
	}
}

// Get the point at distance t along the ray.
func (r Ray) At(t float32) types.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Return a copy of the ray whose origin has been pushed eps units along its
// direction. The parametric range is left untouched.
func (r Ray) Bumped(eps float32) Ray {
	r.Origin = r.Origin.Add(r.Dir.Mul(eps))
	return r
}

func (r Ray) String() string {
	return fmt.Sprintf("Ray{origin: %v, dir: %v, t: [%f, %f]}", r.Origin, r.Dir, r.MinT, r.MaxT)
}
