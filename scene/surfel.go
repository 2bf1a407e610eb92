package scene

import (
	"math"

	"github.com/YitongTseo/WaterSimulationAndRendering/types"
)

// Upper bound on the number of impulses a surfel can produce.
const MaxImpulses = 2

// A discrete scattering direction and the weight carried along it.
type Impulse struct {
	Dir       types.Vec3
	Magnitude types.Vec3
}

// A fixed capacity impulse list.
type ImpulseArray struct {
	items [MaxImpulses]Impulse
	count int
}

func (a *ImpulseArray) Len() int {
	return a.count
}

func (a *ImpulseArray) At(index int) Impulse {
	return a.items[index]
}

func (a *ImpulseArray) Reset() {
	a.count = 0
}

func (a *ImpulseArray) append(impulse Impulse) {
	a.items[a.count] = impulse
	a.count++
}

// A surface point returned by an intersection query.
type Surfel struct {
	Position types.Vec3

	// Always points to the outside (KappaPos) side of the surface.
	GeometricNormal types.Vec3
	ShadingNormal   types.Vec3

	// Distance along the query ray.
	T float32

	Material *Material
}

func (s *Surfel) KappaPos() types.Vec3 {
	return s.Material.KappaPos
}

func (s *Surfel) KappaNeg() types.Vec3 {
	return s.Material.KappaNeg
}

func (s *Surfel) IsFoam() bool {
	return s.Material.IsFoam()
}

// Returns true if the surface transmits light.
func (s *Surfel) Transmissive() bool {
	return s.Material.HasTransmission()
}

// Radiance emitted towards wo.
func (s *Surfel) EmittedRadiance(wo types.Vec3) types.Vec3 {
	return s.Material.Emissive
}

// The finite (non-impulse) part of the BSDF: a Lambertian lobe.
func (s *Surfel) FiniteScatteringDensity(wi, wo types.Vec3) types.Vec3 {
	return s.Material.Lambertian.Mul(1.0 / math.Pi)
}

// Probability of reflection per channel.
func (s *Surfel) Reflectivity() types.Vec3 {
	return s.Material.Lambertian.Add(s.Material.Glossy).Clamp(0, 1)
}

// Populate out with the impulses scattering light arriving from wo.
// Mirror reflection is emitted for glossy surfaces and refraction for
// transmissive ones; rays that undergo total internal reflection have the
// transmitted energy folded into the reflection impulse. Reflection is
// always listed first.
func (s *Surfel) Impulses(wo types.Vec3, out *ImpulseArray) {
	out.Reset()
	mat := s.Material

	n := s.ShadingNormal
	etaI, etaT := mat.EtaPos, mat.EtaNeg
	cosI := n.Dot(wo)
	if cosI < 0 {
		n = n.Neg()
		cosI = -cosI
		etaI, etaT = etaT, etaI
	}

	var fresnel types.Vec3
	if !mat.Glossy.IsZero() {
		fresnel = schlick(mat.Glossy, cosI)
	}

	reflectDir := n.Mul(2 * cosI).Sub(wo).Normalize()
	reflectMagnitude := fresnel

	var refracted *Impulse
	if mat.HasTransmission() {
		transmitted := mat.Transmissive.MulVec(types.Splat3(1).Sub(fresnel))
		if refractDir, ok := refract(wo, n, cosI, etaI, etaT); ok {
			refracted = &Impulse{Dir: refractDir, Magnitude: transmitted}
		} else {
			reflectMagnitude = reflectMagnitude.Add(transmitted)
		}
	}

	if !reflectMagnitude.IsZero() {
		out.append(Impulse{Dir: reflectDir, Magnitude: reflectMagnitude})
	}
	if refracted != nil {
		out.append(*refracted)
	}
}

// Schlick's approximation of the Fresnel reflectance.
func schlick(f0 types.Vec3, cosI float32) types.Vec3 {
	m := float32(math.Pow(float64(1-cosI), 5))
	return f0.Add(types.Splat3(1).Sub(f0).Mul(m))
}

// Refract wo (pointing away from the surface) through a boundary with normal
// n on the incident side. Returns false on total internal reflection.
func refract(wo, n types.Vec3, cosI, etaI, etaT float32) (types.Vec3, bool) {
	if etaT == 0 {
		etaT = 1
	}
	eta := etaI / etaT
	sin2T := eta * eta * (1 - cosI*cosI)
	if sin2T > 1 {
		return types.Vec3{}, false
	}
	cosT := float32(math.Sqrt(float64(1 - sin2T)))
	return wo.Neg().Mul(eta).Add(n.Mul(eta*cosI - cosT)).Normalize(), true
}
