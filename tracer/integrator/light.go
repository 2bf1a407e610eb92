package integrator

import (
	"math/rand"

	"github.com/YitongTseo/WaterSimulationAndRendering/scene"
	"github.com/YitongTseo/WaterSimulationAndRendering/types"
)

const (
	// Shadow rays stop this far from the receiving surfel.
	shadowRayEpsilon float32 = 1e-4
	shadowRayMargin  float32 = 1e-3
)

// Select a light for every pixel with a surfel and build a shadow ray from
// the light towards the surfel.
func (in *Integrator) chooseLight(rng *rand.Rand, i int) {
	in.buffers.shadowed[i] = false

	surfel := in.buffers.surfels[i]
	if surfel == nil {
		return
	}

	biradiance, light := sampleLight(rng, in.lights, surfel.Position)
	in.buffers.biradiance[i] = biradiance
	in.buffers.shadowRays[i] = shadowRay(light.Position(), surfel.Position)
}

// Pick a light with probability proportional to the sum of its biradiance
// channels at point. The returned biradiance is divided by the selection
// probability so the estimate stays unbiased. If no light reaches point the
// first light is returned with zero biradiance.
func sampleLight(rng *rand.Rand, lights []scene.Light, point types.Vec3) (types.Vec3, scene.Light) {
	if len(lights) == 1 {
		return lights[0].Biradiance(point), lights[0]
	}

	var total float32
	for _, light := range lights {
		total += light.Biradiance(point).Sum()
	}
	if total <= 0 {
		return types.Vec3{}, lights[0]
	}

	var (
		lastLight scene.Light
		lastBirad types.Vec3
		lastSum   float32
	)

	r := total * rng.Float32()
	for _, light := range lights {
		birad := light.Biradiance(point)
		sum := birad.Sum()
		if sum <= 0 {
			continue
		}

		r -= sum
		if r < 0 {
			return birad.Mul(total / sum), light
		}
		lastLight, lastBirad, lastSum = light, birad, sum
	}

	// Rounding left r slightly positive
	return lastBirad.Mul(total / lastSum), lastLight
}

// Build the occlusion query between a light at from and a surfel at to. The
// ray starts at the light and stops just short of the surfel.
func shadowRay(from, to types.Vec3) scene.Ray {
	delta := to.Sub(from)
	length := delta.Len() - shadowRayEpsilon
	if length <= shadowRayMargin {
		return scene.Ray{Origin: from, Dir: delta.Normalize()}
	}

	return scene.Ray{
		Origin: from,
		Dir:    delta.Mul(1 / length),
		MinT:   0,
		MaxT:   length - shadowRayMargin,
	}.Bumped(shadowRayEpsilon)
}
