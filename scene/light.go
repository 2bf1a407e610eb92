package scene

import (
	"math"

	"github.com/YitongTseo/WaterSimulationAndRendering/types"
)

// A light that can be sampled for direct illumination.
type Light interface {
	// World-space light position. Shadow rays start here.
	Position() types.Vec3

	// Incident power per unit area arriving at point.
	Biradiance(point types.Vec3) types.Vec3
}

// An isotropic point light.
type PointLight struct {
	Pos   types.Vec3
	Power types.Vec3
}

func NewPointLight(pos, power types.Vec3) *PointLight {
	return &PointLight{Pos: pos, Power: power}
}

func (l *PointLight) Position() types.Vec3 {
	return l.Pos
}

// Power / (4 * pi * r^2). Points at the light position receive nothing.
func (l *PointLight) Biradiance(point types.Vec3) types.Vec3 {
	d := point.Sub(l.Pos)
	dist2 := d.Dot(d)
	if dist2 == 0 {
		return types.Vec3{}
	}
	return l.Power.Mul(1.0 / (4 * math.Pi * dist2))
}

// A point light restricted to a cone around a target direction.
type SpotLight struct {
	PointLight
	Dir types.Vec3

	cosTotalWidth   float32
	cosFalloffStart float32
}

// Create a spot light at pos aiming at target. The cone half-angle is given
// in degrees; intensity falls off over the outermost tenth of the cone.
func NewSpotLight(pos, target, power types.Vec3, angle float32) *SpotLight {
	totalRad := float64(angle) * math.Pi / 180.0
	return &SpotLight{
		PointLight:      PointLight{Pos: pos, Power: power},
		Dir:             target.Sub(pos).Normalize(),
		cosTotalWidth:   float32(math.Cos(totalRad)),
		cosFalloffStart: float32(math.Cos(totalRad * 0.9)),
	}
}

func (l *SpotLight) Biradiance(point types.Vec3) types.Vec3 {
	cosAngle := point.Sub(l.Pos).Normalize().Dot(l.Dir)
	return l.PointLight.Biradiance(point).Mul(l.falloff(cosAngle))
}

func (l *SpotLight) falloff(cosAngle float32) float32 {
	if cosAngle < l.cosTotalWidth {
		return 0
	}
	if cosAngle >= l.cosFalloffStart {
		return 1
	}

	delta := (cosAngle - l.cosTotalWidth) / (l.cosFalloffStart - l.cosTotalWidth)
	return delta * delta * delta * delta
}
