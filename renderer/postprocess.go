package renderer

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"

	"github.com/YitongTseo/WaterSimulationAndRendering/tracer/integrator"
	"github.com/YitongTseo/WaterSimulationAndRendering/types"
)

const invGamma = 1.0 / 2.2

// Map a linear radiance image to 8-bit sRGB-ish colors: scale by exposure,
// compress with the simple Reinhard operator and gamma correct.
func ToneMap(img *integrator.Image, exposure float32) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			pix := img.At(x, y)
			off := out.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				out.Pix[off+c] = toneMapChannel(pix[c], exposure)
			}
			out.Pix[off+3] = 255
		}
	}
	return out
}

func toneMapChannel(v, exposure float32) uint8 {
	v *= exposure
	if v <= 0 || math.IsNaN(float64(v)) {
		return 0
	}
	v = v / (1 + v)
	v = float32(math.Pow(float64(v), invGamma))
	return uint8(types.Clamp(v*255+0.5, 0, 255))
}

// Encode img as a png file.
func SavePNG(img image.Image, imgFile string) error {
	f, err := os.Create(imgFile)
	if err != nil {
		return fmt.Errorf("renderer: could not create %s: %s", imgFile, err)
	}
	defer f.Close()

	return png.Encode(f, img)
}
