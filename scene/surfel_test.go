package scene

import (
	"math"
	"testing"

	"github.com/YitongTseo/WaterSimulationAndRendering/types"
)

func TestWaterImpulsesFromOutside(t *testing.T) {
	surfel := &Surfel{
		GeometricNormal: types.Vec3{0, 1, 0},
		ShadingNormal:   types.Vec3{0, 1, 0},
		Material:        WaterMaterial(),
	}

	var impulses ImpulseArray
	surfel.Impulses(types.Vec3{0, 1, 0}, &impulses)
	if impulses.Len() != 2 {
		t.Fatalf("expected 2 impulses; got %d", impulses.Len())
	}

	reflect := impulses.At(0)
	if !types.ApproxEqual(reflect.Dir, types.Vec3{0, 1, 0}, 1e-5) {
		t.Fatalf("expected reflection to be listed first with dir (0, 1, 0); got %v", reflect.Dir)
	}
	if !types.ApproxEqual(reflect.Magnitude, types.Splat3(0.1), 1e-5) {
		t.Fatalf("expected reflection magnitude to equal F0 at normal incidence; got %v", reflect.Magnitude)
	}

	refract := impulses.At(1)
	if !types.ApproxEqual(refract.Dir, types.Vec3{0, -1, 0}, 1e-5) {
		t.Fatalf("expected refraction dir (0, -1, 0); got %v", refract.Dir)
	}
	expMagnitude := types.Vec3{0.72, 0.81, 0.9}
	if !types.ApproxEqual(refract.Magnitude, expMagnitude, 1e-5) {
		t.Fatalf("expected refraction magnitude %v; got %v", expMagnitude, refract.Magnitude)
	}
}

func TestWaterImpulsesBendTowardsNormal(t *testing.T) {
	surfel := &Surfel{
		GeometricNormal: types.Vec3{0, 1, 0},
		ShadingNormal:   types.Vec3{0, 1, 0},
		Material:        WaterMaterial(),
	}

	wo := types.Vec3{-1, 1, 0}.Normalize()
	var impulses ImpulseArray
	surfel.Impulses(wo, &impulses)
	if impulses.Len() != 2 {
		t.Fatalf("expected 2 impulses; got %d", impulses.Len())
	}

	// sin(theta_t) = sin(45) / 1.33
	refract := impulses.At(1)
	sinT := float64(refract.Dir[0])
	expSinT := math.Sin(math.Pi/4) / 1.33
	if math.Abs(sinT-expSinT) > 1e-4 || refract.Dir[1] >= 0 {
		t.Fatalf("expected refracted dir to have sin(theta_t) = %f and point down; got %v", expSinT, refract.Dir)
	}
}

func TestTotalInternalReflection(t *testing.T) {
	surfel := &Surfel{
		GeometricNormal: types.Vec3{0, 1, 0},
		ShadingNormal:   types.Vec3{0, 1, 0},
		Material:        WaterMaterial(),
	}

	// Grazing ray inside the water
	wo := types.Vec3{0.9, -0.1, 0}.Normalize()
	var impulses ImpulseArray
	surfel.Impulses(wo, &impulses)
	if impulses.Len() != 1 {
		t.Fatalf("expected a single impulse; got %d", impulses.Len())
	}

	impulse := impulses.At(0)
	if impulse.Dir[1] >= 0 {
		t.Fatalf("expected reflected ray to stay inside the medium; got %v", impulse.Dir)
	}

	cosI := float64(-wo[1])
	fresnel := 0.1 + 0.9*float32(math.Pow(1-cosI, 5))
	expMagnitude := types.Splat3(fresnel).Add(types.Vec3{0.8, 0.9, 1}.Mul(1 - fresnel))
	if !types.ApproxEqual(impulse.Magnitude, expMagnitude, 1e-4) {
		t.Fatalf("expected transmitted energy to fold into reflection %v; got %v", expMagnitude, impulse.Magnitude)
	}
}

func TestDiffuseSurfelHasNoImpulses(t *testing.T) {
	surfel := &Surfel{
		GeometricNormal: types.Vec3{0, 1, 0},
		ShadingNormal:   types.Vec3{0, 1, 0},
		Material:        DefaultMaterial(),
	}

	var impulses ImpulseArray
	surfel.Impulses(types.Vec3{0, 1, 0}, &impulses)
	if impulses.Len() != 0 {
		t.Fatalf("expected no impulses for a lambertian surface; got %d", impulses.Len())
	}

	expDensity := types.Splat3(0.8 / math.Pi)
	if got := surfel.FiniteScatteringDensity(types.Vec3{0, 1, 0}, types.Vec3{0, 1, 0}); !types.ApproxEqual(got, expDensity, 1e-6) {
		t.Fatalf("expected scattering density %v; got %v", expDensity, got)
	}
}

func TestFoamMaterialTags(t *testing.T) {
	surfel := &Surfel{Material: FoamMaterial(0.87, 0.05)}
	if !surfel.IsFoam() {
		t.Fatal("expected foam material to carry the foam tag")
	}
	if !surfel.Transmissive() {
		t.Fatal("expected foam to be transmissive")
	}

	expKappaNeg := types.Vec3{0.8, 0, 0.05}
	if !types.ApproxEqual(surfel.KappaNeg(), expKappaNeg, 1e-6) {
		t.Fatalf("expected foam kappaNeg %v; got %v", expKappaNeg, surfel.KappaNeg())
	}

	water := &Surfel{Material: WaterMaterial()}
	if water.IsFoam() {
		t.Fatal("expected water not to be tagged as foam")
	}
	if water.KappaPos() != (types.Vec3{}) || water.KappaNeg().IsZero() {
		t.Fatal("expected water to be a medium on the inside only")
	}
}
