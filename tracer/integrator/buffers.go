package integrator

import (
	"github.com/YitongTseo/WaterSimulationAndRendering/scene"
	"github.com/YitongTseo/WaterSimulationAndRendering/types"
)

// A linear radiance image. Pixel (x, y) is stored at Pix[y*Width + x].
type Image struct {
	Width  int
	Height int
	Pix    []types.Vec3
}

func NewImage(width, height int) *Image {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]types.Vec3, width*height),
	}
}

// Get the pixel at column x of row y.
func (img *Image) At(x, y int) types.Vec3 {
	return img.Pix[y*img.Width+x]
}

// Reset all pixels to black.
func (img *Image) Clear() {
	for i := range img.Pix {
		img.Pix[i] = types.Vec3{}
	}
}

// Per-pixel working buffers. Slot i of every buffer belongs to pixel
// (i mod width, i div width).
type bufferSet struct {
	width  int
	height int

	// Current path segment and its closest hit (nil if the ray escaped).
	rays    []scene.Ray
	surfels []*scene.Surfel

	// Light sampling results.
	biradiance []types.Vec3
	shadowRays []scene.Ray
	shadowed   []bool

	// Medium state. mediumEntry holds the last scattering position and is
	// used to measure the distance travelled inside the medium.
	mediumEntry []types.Vec3
	inMedium    []bool

	// Running path weight, pre-divided by the number of samples.
	modulation []types.Vec3
}

// Allocate new buffer set.
func newBufferSet(width, height int) *bufferSet {
	pixels := width * height
	return &bufferSet{
		width:       width,
		height:      height,
		rays:        make([]scene.Ray, pixels),
		surfels:     make([]*scene.Surfel, pixels),
		biradiance:  make([]types.Vec3, pixels),
		shadowRays:  make([]scene.Ray, pixels),
		shadowed:    make([]bool, pixels),
		mediumEntry: make([]types.Vec3, pixels),
		inMedium:    make([]bool, pixels),
		modulation:  make([]types.Vec3, pixels),
	}
}

// Number of slots in each buffer.
func (bs *bufferSet) Len() int {
	return bs.width * bs.height
}

// Returns true if the buffers were allocated for the given frame dimensions.
func (bs *bufferSet) Fits(width, height int) bool {
	return bs != nil && bs.width == width && bs.height == height
}
