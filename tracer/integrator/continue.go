package integrator

import (
	"math/rand"

	"github.com/YitongTseo/WaterSimulationAndRendering/scene"
	"github.com/YitongTseo/WaterSimulationAndRendering/types"
)

const (
	// Offset applied along the geometric normal to continuation rays.
	continueRayEpsilon float32 = 0.01

	// Foam rays respawn slightly further than one particle radius behind
	// the hit point.
	foamRespawnScale float32 = 1.01
)

// Generate the ray for the next bounce.
//
// The scattering impulse is selected deterministically using
// (sample / (bounce + 1)) mod impulseCount so that rendering 2^depth samples
// explores every reflect/refract combination.
func (in *Integrator) continuePath(_ *rand.Rand, i int) {
	bufs := in.buffers
	surfel := bufs.surfels[i]
	if surfel == nil {
		bufs.modulation[i] = types.Vec3{}
		return
	}

	bufs.mediumEntry[i] = surfel.Position

	var impulses scene.ImpulseArray
	surfel.Impulses(bufs.rays[i].Dir.Neg(), &impulses)
	if impulses.Len() == 0 {
		bufs.modulation[i] = types.Vec3{}
		return
	}

	impulseCount := impulses.Len()
	impulse := impulses.At((in.sampleIndex / (in.bounceIndex + 1)) % impulseCount)

	// Divide by the uniform selection probability 1/impulseCount
	bufs.modulation[i] = bufs.modulation[i].MulVec(impulse.Magnitude.Mul(float32(impulseCount)))

	// Look through foam particles; kappaNeg.b holds the particle radius
	if surfel.IsFoam() {
		origin := surfel.Position.Sub(surfel.GeometricNormal.Mul(surfel.KappaNeg()[2] * foamRespawnScale))
		bufs.rays[i] = scene.NewRay(origin, bufs.rays[i].Dir)
		return
	}

	k := sign(impulse.Dir.Dot(surfel.GeometricNormal))
	if k <= 0 {
		bufs.inMedium[i] = !surfel.KappaNeg().IsZero()
	} else {
		bufs.inMedium[i] = !surfel.KappaPos().IsZero()
	}

	origin := surfel.Position.Add(surfel.GeometricNormal.Mul(continueRayEpsilon * k))
	bufs.rays[i] = scene.NewRay(origin, impulse.Dir)
}

func sign(v float32) float32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
