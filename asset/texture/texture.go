package texture

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/YitongTseo/WaterSimulationAndRendering/asset"
	"github.com/YitongTseo/WaterSimulationAndRendering/types"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// Number of frames in an animated caustic sequence.
const CausticFrames = 32

// A decoded texture with linear RGB texels in [0, 1].
type Texture struct {
	Width  int
	Height int

	Data []types.Vec3
}

// Decode a texture from a resource. Supports png, jpeg, bmp and tiff.
func New(res *asset.Resource) (*Texture, error) {
	img, _, err := image.Decode(res)
	if err != nil {
		return nil, fmt.Errorf("texture: could not decode %s: %s", res.Path(), err)
	}

	return FromImage(img)
}

// Convert an image into a texture.
func FromImage(img image.Image) (*Texture, error) {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("texture: image has zero area")
	}

	tex := &Texture{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Data:   make([]types.Vec3, bounds.Dx()*bounds.Dy()),
	}

	for y := 0; y < tex.Height; y++ {
		for x := 0; x < tex.Width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			tex.Data[y*tex.Width+x] = types.Vec3{
				float32(r) / 65535.0,
				float32(g) / 65535.0,
				float32(b) / 65535.0,
			}
		}
	}

	return tex, nil
}

// Get the texel at (x, y). Coordinates wrap around so the texture tiles.
func (t *Texture) At(x, y int) types.Vec3 {
	x %= t.Width
	if x < 0 {
		x += t.Width
	}
	y %= t.Height
	if y < 0 {
		y += t.Height
	}
	return t.Data[y*t.Width+x]
}

// Resample the texture by factor using Catmull-Rom filtering.
func (t *Texture) Scale(factor float32) (*Texture, error) {
	w, h := int(float32(t.Width)*factor), int(float32(t.Height)*factor)
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("texture: scale factor %f collapses %dx%d texture", factor, t.Width, t.Height)
	}

	src := t.Image()
	dst := image.NewRGBA64(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return FromImage(dst)
}

// Convert texture back to a 16-bit image.
func (t *Texture) Image() *image.RGBA64 {
	img := image.NewRGBA64(image.Rect(0, 0, t.Width, t.Height))
	for i, texel := range t.Data {
		off := i * 8
		for c := 0; c < 3; c++ {
			v := uint16(types.Clamp(texel[c], 0, 1) * 65535)
			img.Pix[off+c*2] = uint8(v >> 8)
			img.Pix[off+c*2+1] = uint8(v)
		}
		img.Pix[off+6] = 0xff
		img.Pix[off+7] = 0xff
	}
	return img
}

// Expand a caustic frame pattern. Caustic sequences cycle every
// CausticFrames frames and are numbered from 1; a pattern such as
// "waterCaustic_0%02d.jpg" yields waterCaustic_001.jpg for frame 0. Patterns
// without a verb are returned unchanged.
func FramePath(pattern string, frame int) string {
	if !strings.Contains(pattern, "%") {
		return pattern
	}
	if frame < 0 {
		frame = -frame
	}
	return fmt.Sprintf(pattern, frame%CausticFrames+1)
}
