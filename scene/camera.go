package scene

import (
	"fmt"

	"github.com/YitongTseo/WaterSimulationAndRendering/types"
)

// Ray directions through the four corners of the image plane in TL, TR, BL,
// BR order. Per-pixel rays are generated by bilinear interpolation.
type Frustrum [4]types.Vec4

func (fr Frustrum) String() string {
	return fmt.Sprintf(
		"Frustrum Rays:\nTL : (%3.3f, %3.3f, %3.3f)\nTR : (%3.3f, %3.3f, %3.3f)\nBL : (%3.3f, %3.3f, %3.3f)\nBR : (%3.3f, %3.3f, %3.3f)",
		fr[0][0], fr[0][1], fr[0][2],
		fr[1][0], fr[1][1], fr[1][2],
		fr[2][0], fr[2][1], fr[2][2],
		fr[3][0], fr[3][1], fr[3][2],
	)
}

// A pinhole camera.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3

	// Pending rotation in radians; consumed by Update.
	Pitch float32
	Yaw   float32

	ViewMat  types.Mat4
	ProjMat  types.Mat4
	Frustrum Frustrum

	// Vertical field of view in degrees.
	FOV float32
}

func NewCamera(fov float32) *Camera {
	return &Camera{
		ViewMat:  types.Ident4(),
		ProjMat:  types.Ident4(),
		Position: types.Vec3{0, 0, 0},
		LookAt:   types.Vec3{0, 0, -1},
		Up:       types.Vec3{0, 1, 0},
		FOV:      fov,
	}
}

// Setup the projection matrix for a frame with the given aspect ratio
// (width / height) and refresh the frustrum.
func (c *Camera) SetupProjection(aspect float32) {
	c.ProjMat = types.Perspective4(c.FOV, aspect, 1, 1000)
	c.Update()
}

// Apply any pending pitch/yaw and rebuild the view matrix and frustrum.
func (c *Camera) Update() {
	dir := c.LookAt.Sub(c.Position).Normalize()
	if c.Pitch != 0 || c.Yaw != 0 {
		pitchQuat := types.QuatFromAxisAngle(dir.Cross(c.Up).Normalize(), c.Pitch)
		yawQuat := types.QuatFromAxisAngle(c.Up.Normalize(), c.Yaw)
		dir = pitchQuat.Mul(yawQuat).Normalize().Rotate(dir)
		c.LookAt = c.Position.Add(dir)
		c.Pitch, c.Yaw = 0, 0
	}

	c.ViewMat = types.LookAtV(c.Position, c.LookAt, c.Up)
	c.updateFrustrum()
}

func (c *Camera) InvViewProjMat() types.Mat4 {
	return c.ProjMat.Mul4(c.ViewMat).Inv()
}

// Generate a ray through the point (x, y) of a frameW x frameH image. The
// coordinates are continuous; (0, 0) is the top-left corner of the image and
// (x + 0.5, y + 0.5) the center of pixel (x, y).
func (c *Camera) RayThroughPixel(x, y float32, frameW, frameH int) Ray {
	tx := x / float32(frameW)
	ty := y / float32(frameH)

	top := lerp(c.Frustrum[0].Vec3(), c.Frustrum[1].Vec3(), tx)
	bottom := lerp(c.Frustrum[2].Vec3(), c.Frustrum[3].Vec3(), tx)
	return NewRay(c.Position, lerp(top, bottom, ty).Normalize())
}

// Project the clip space corners of the near plane back to world space
// with the inverse view-projection matrix and subtract the eye position.
func (c *Camera) updateFrustrum() {
	invProjViewMat := c.InvViewProjMat()
	corners := [4]types.Vec4{
		types.XYZW(-1, 1, -1, 1),
		types.XYZW(1, 1, -1, 1),
		types.XYZW(-1, -1, -1, 1),
		types.XYZW(1, -1, -1, 1),
	}

	for i, corner := range corners {
		v := invProjViewMat.Mul4x1(corner)
		c.Frustrum[i] = v.Mul(1.0 / v[3]).Vec3().Sub(c.Position).Vec4(0)
	}
}

func lerp(a, b types.Vec3, t float32) types.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}
