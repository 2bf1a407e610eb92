package scene

import "github.com/YitongTseo/WaterSimulationAndRendering/types"

var (
	// KappaPos value that marks a surface as a foam particle.
	FoamTag = types.Vec3{0.314, 0.159, 0.265}

	foamReflectivity = types.Vec3{0.95, 0.95, 1.0}
)

// Surface scattering parameters. Pos/Neg pairs describe the media on the
// side the geometric normal points to (outside, reflection side) and the
// opposite side (inside, transmission side).
type Material struct {
	Name string

	Lambertian   types.Vec3
	Glossy       types.Vec3
	Transmissive types.Vec3
	Emissive     types.Vec3

	// Indices of refraction.
	EtaPos float32
	EtaNeg float32

	// Extinction tags. A non-zero KappaNeg marks the inside of a medium.
	// Foam particles reuse both fields: KappaPos holds FoamTag and
	// KappaNeg holds (age, 0, radius).
	KappaPos types.Vec3
	KappaNeg types.Vec3

	// Single-sided opaque triangles are culled when hit from behind.
	TwoSided bool
}

// Create a matte white material.
func DefaultMaterial() *Material {
	return &Material{
		Name:       "default",
		Lambertian: types.Splat3(0.8),
		EtaPos:     1.0,
		EtaNeg:     1.0,
	}
}

// Create the material used for the liquid surface.
func WaterMaterial() *Material {
	return &Material{
		Name:         "water",
		Glossy:       types.Splat3(0.1),
		Transmissive: types.Vec3{0.8, 0.9, 1.0},
		EtaPos:       1.0,
		EtaNeg:       1.33,
		KappaNeg:     types.Splat3(1),
		TwoSided:     true,
	}
}

// Create the material for a foam particle of the given age and radius. The
// transmissive term must stay non-zero so foam never casts shadows. Foam is
// single-sided so rays respawned inside a particle leave it without a hit.
func FoamMaterial(age, radius float32) *Material {
	return &Material{
		Name:         "foam",
		Lambertian:   foamReflectivity,
		Transmissive: types.Splat3(0.5),
		EtaPos:       1.0,
		EtaNeg:       1.0,
		KappaPos:     FoamTag,
		KappaNeg:     types.Vec3{float32(int(10*age)) / 10, 0, radius},
	}
}

// Returns true if light can pass through the surface.
func (m *Material) HasTransmission() bool {
	return !m.Transmissive.IsZero()
}

// Returns true if the material carries the foam tag.
func (m *Material) IsFoam() bool {
	return m.KappaPos == FoamTag
}

func (m *Material) IsEmissive() bool {
	return !m.Emissive.IsZero()
}
