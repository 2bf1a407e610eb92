package integrator

import (
	"math"
	"math/rand"

	"github.com/YitongTseo/WaterSimulationAndRendering/scene"
	"github.com/YitongTseo/WaterSimulationAndRendering/types"
)

const (
	// Higher values make the medium absorb light faster.
	extinctionCoefficient float32 = 3.0

	// Scale applied to the surface reflectivity to fake indirect light.
	ambientScale float32 = 0.05

	// Caustic texels per world unit.
	inverseCausticSize float32 = 150
)

var (
	mediumColor       = types.Vec3{0, 0.02, 0.15}
	shadowMediumColor = types.Vec3{0, 0.01, 0.08}
	foamColor         = types.Vec3{0.95, 0.95, 1.0}
)

// Convert a distance travelled inside the medium to a transmittance in [0, 1].
func extinction(distance float32) float32 {
	alpha := float32(math.Exp(float64(-distance * extinctionCoefficient)))
	return types.Clamp(alpha, 0, 1)
}

// Add the radiance reaching the camera from this bounce to the frame and
// fold medium attenuation into the path weight.
func (in *Integrator) accumulateRadiance(_ *rand.Rand, i int) {
	bufs := in.buffers
	ray := &bufs.rays[i]
	surfel := bufs.surfels[i]
	modulation := bufs.modulation[i]

	if surfel == nil {
		in.addRadiance(i, in.sky.Radiance(ray.Dir).MulVec(modulation))
		return
	}

	wo := ray.Dir.Neg()

	// Foam is whiter towards the center of each particle; kappaNeg.r
	// holds the particle age
	if surfel.IsFoam() {
		cosTerm := surfel.ShadingNormal.Dot(wo)
		cosTerm *= cosTerm
		in.addRadiance(i, foamColor.Mul(cosTerm*surfel.KappaNeg()[0]).MulVec(modulation))
		return
	}

	var c types.Vec3
	alpha := float32(1.0)
	ambient := surfel.Reflectivity().Mul(ambientScale)

	if bufs.inMedium[i] {
		// Opaque surfaces end the medium segment
		bufs.inMedium[i] = surfel.Transmissive()

		alpha = extinction(surfel.Position.Sub(bufs.mediumEntry[i]).Len())
		c = c.Add(mediumColor.Mul(1 - alpha))
		c = c.Add(in.causticLight(surfel, alpha))

		if bufs.shadowed[i] {
			in.addRadiance(i, shadowMediumColor.Mul(1-alpha).Add(ambient.Mul(alpha)).MulVec(modulation))
			bufs.modulation[i] = in.attenuate(modulation, alpha, shadowMediumColor)
			return
		}
	} else if bufs.shadowed[i] {
		in.addRadiance(i, ambient.Mul(alpha).MulVec(modulation))
		return
	}

	wi := bufs.shadowRays[i].Dir.Neg().Normalize()
	cosTerm := float32(math.Abs(float64(surfel.ShadingNormal.Dot(wi))))
	bsdf := surfel.FiniteScatteringDensity(wi, wo)

	direct := surfel.EmittedRadiance(wo).
		Add(bufs.biradiance[i].MulVec(bsdf).Mul(cosTerm)).
		Add(ambient)

	c = c.Add(direct.Mul(alpha))
	in.addRadiance(i, c.MulVec(modulation))
	bufs.modulation[i] = in.attenuate(modulation, alpha, mediumColor)
}

// Later bounces are seen through the medium: scale the path weight by the
// transmittance and tint it with the medium color.
func (in *Integrator) attenuate(modulation types.Vec3, alpha float32, tint types.Vec3) types.Vec3 {
	return modulation.Mul(alpha).Add(tint.Mul((1 - alpha) / float32(in.opts.RaysPerPixel)))
}

// Caustics are tiled over the horizontal plane and are brightest on
// surfaces facing straight up.
func (in *Integrator) causticLight(surfel *scene.Surfel, alpha float32) types.Vec3 {
	if in.caustics == nil {
		return types.Vec3{}
	}

	x := int(math.Abs(float64(surfel.Position[0] * inverseCausticSize)))
	z := int(math.Abs(float64(surfel.Position[2] * inverseCausticSize)))
	caustic := in.caustics.At(x, z).Mul(alpha * surfel.GeometricNormal[1])
	return types.MaxVec3(caustic, types.Vec3{})
}

// Each pixel is only written by the task that owns its index.
func (in *Integrator) addRadiance(i int, radiance types.Vec3) {
	in.frame.Pix[i] = in.frame.Pix[i].Add(radiance)
}
