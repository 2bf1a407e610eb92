package scene

import (
	"math"
	"testing"

	"github.com/YitongTseo/WaterSimulationAndRendering/types"
)

func TestPointLightBiradiance(t *testing.T) {
	light := NewPointLight(types.Vec3{0, 2, 0}, types.Splat3(16*math.Pi))

	type spec struct {
		point types.Vec3
		exp   types.Vec3
	}
	specs := []spec{
		{types.Vec3{0, 0, 0}, types.Splat3(1)},
		{types.Vec3{0, 6, 0}, types.Splat3(0.25)},
		{types.Vec3{0, 2, 0}, types.Vec3{}},
	}

	for index, s := range specs {
		if got := light.Biradiance(s.point); !types.ApproxEqual(got, s.exp, 1e-5) {
			t.Fatalf("[spec %d] expected biradiance %v; got %v", index, s.exp, got)
		}
	}

	if light.Position() != (types.Vec3{0, 2, 0}) {
		t.Fatalf("expected light position (0, 2, 0); got %v", light.Position())
	}
}

func TestSpotLightFalloff(t *testing.T) {
	light := NewSpotLight(types.Vec3{0, 10, 0}, types.Vec3{0, 0, 0}, types.Splat3(400*math.Pi), 30)

	if got := light.Biradiance(types.Vec3{0, 0, 0}); !types.ApproxEqual(got, types.Splat3(1), 1e-4) {
		t.Fatalf("expected full biradiance on the cone axis; got %v", got)
	}
	if got := light.Biradiance(types.Vec3{10, 0, 0}); !got.IsZero() {
		t.Fatalf("expected zero biradiance outside the cone; got %v", got)
	}

	// 28.5 degrees lies in the falloff band between 27 and 30 degrees
	x := float32(10 * math.Tan(28.5*math.Pi/180))
	point := types.Vec3{x, 0, 0}
	got := light.Biradiance(point)
	full := light.PointLight.Biradiance(point)
	if got[0] <= 0 || got[0] >= full[0] {
		t.Fatalf("expected attenuated biradiance inside the falloff band; got %v (unattenuated %v)", got, full)
	}
}

func TestSkyRadiance(t *testing.T) {
	sky := GradientSky{Horizon: types.Vec3{1, 1, 1}, Zenith: types.Vec3{0, 0, 1}}

	type spec struct {
		dir types.Vec3
		exp types.Vec3
	}
	specs := []spec{
		{types.Vec3{0, 1, 0}, types.Vec3{0, 0, 1}},
		{types.Vec3{0, -1, 0}, types.Vec3{1, 1, 1}},
		{types.Vec3{1, 0, 0}, types.Vec3{0.5, 0.5, 1}},
	}
	for index, s := range specs {
		if got := sky.Radiance(s.dir); !types.ApproxEqual(got, s.exp, 1e-5) {
			t.Fatalf("[spec %d] expected radiance %v; got %v", index, s.exp, got)
		}
	}

	uniform := UniformSky{Color: types.Vec3{0.1, 0.2, 0.3}}
	if got := uniform.Radiance(types.Vec3{0, 1, 0}); got != uniform.Color {
		t.Fatalf("expected uniform sky radiance %v; got %v", uniform.Color, got)
	}
}

func TestCameraRayThroughPixel(t *testing.T) {
	camera := NewCamera(90)
	camera.SetupProjection(1)

	type spec struct {
		x, y   float32
		expDir types.Vec3
	}
	specs := []spec{
		{0.5, 0.5, types.Vec3{0, 0, -1}},
		{0, 0, types.Vec3{-1, 1, -1}.Normalize()},
		{1, 1, types.Vec3{1, -1, -1}.Normalize()},
	}

	for index, s := range specs {
		ray := camera.RayThroughPixel(s.x, s.y, 1, 1)
		if ray.Origin != camera.Position {
			t.Fatalf("[spec %d] expected ray to start at the eye; got %v", index, ray.Origin)
		}
		if !types.ApproxEqual(ray.Dir, s.expDir, 1e-4) {
			t.Fatalf("[spec %d] expected ray dir %v; got %v", index, s.expDir, ray.Dir)
		}
	}
}

func TestCameraYaw(t *testing.T) {
	camera := NewCamera(90)
	camera.Yaw = math.Pi / 2
	camera.SetupProjection(1)

	if camera.Yaw != 0 {
		t.Fatal("expected pending yaw to be consumed by Update")
	}

	// Rotating -Z around +Y by 90 degrees yields -X
	ray := camera.RayThroughPixel(0.5, 0.5, 1, 1)
	if !types.ApproxEqual(ray.Dir, types.Vec3{-1, 0, 0}, 1e-4) {
		t.Fatalf("expected camera to face -X after yaw; got %v", ray.Dir)
	}
}
