package scene

import "github.com/YitongTseo/WaterSimulationAndRendering/types"

// The radiance reaching the camera along rays that escape the scene.
type Sky interface {
	Radiance(dir types.Vec3) types.Vec3
}

// A constant color sky.
type UniformSky struct {
	Color types.Vec3
}

func (s UniformSky) Radiance(dir types.Vec3) types.Vec3 {
	return s.Color
}

// A sky that blends from Horizon (looking straight down) to Zenith
// (looking straight up).
type GradientSky struct {
	Horizon types.Vec3
	Zenith  types.Vec3
}

func (s GradientSky) Radiance(dir types.Vec3) types.Vec3 {
	t := types.Clamp(0.5*(dir.Normalize()[1]+1.0), 0, 1)
	return s.Horizon.Mul(1 - t).Add(s.Zenith.Mul(t))
}
