package integrator

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/YitongTseo/WaterSimulationAndRendering/types"
)

// Debug flags select the per-pixel buffers that are dumped after each bounce.
type DebugFlag uint8

const (
	Off             DebugFlag = 0
	DebugModulation DebugFlag = 1 << iota
	DebugInMedium
	DebugSurfelDepth
	DebugShadowed
	DebugAccumulator
)

var debugFlagNames = map[string]DebugFlag{
	"modulation":  DebugModulation,
	"inmedium":    DebugInMedium,
	"depth":       DebugSurfelDepth,
	"shadowed":    DebugShadowed,
	"accumulator": DebugAccumulator,
}

// Parse a comma separated list of debug buffer names.
func ParseDebugFlags(list string) (DebugFlag, error) {
	var flags DebugFlag
	for _, name := range strings.Split(list, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}

		flag, ok := debugFlagNames[name]
		if !ok {
			return Off, fmt.Errorf("integrator: unknown debug buffer %q", name)
		}
		flags |= flag
	}
	return flags, nil
}

// Write the buffers selected by the debug flags to png files.
func (in *Integrator) dumpDebugBuffers() error {
	var err error
	flags := in.opts.Debug
	if flags&DebugModulation == DebugModulation {
		err = in.dumpDebugBuffer(err, "modulation", func(i int) types.Vec3 {
			return in.buffers.modulation[i].Mul(float32(in.opts.RaysPerPixel))
		})
	}
	if flags&DebugInMedium == DebugInMedium {
		err = in.dumpDebugBuffer(err, "inmedium", func(i int) types.Vec3 {
			return boolTexel(in.buffers.inMedium[i])
		})
	}
	if flags&DebugSurfelDepth == DebugSurfelDepth {
		err = in.dumpDebugBuffer(err, "depth", func(i int) types.Vec3 {
			if in.buffers.surfels[i] == nil {
				return types.Vec3{}
			}
			return types.Splat3(1 / (1 + in.buffers.surfels[i].T))
		})
	}
	if flags&DebugShadowed == DebugShadowed {
		err = in.dumpDebugBuffer(err, "shadowed", func(i int) types.Vec3 {
			return boolTexel(in.buffers.shadowed[i])
		})
	}
	if flags&DebugAccumulator == DebugAccumulator {
		err = in.dumpDebugBuffer(err, "accumulator", func(i int) types.Vec3 {
			return in.frame.Pix[i]
		})
	}
	return err
}

func (in *Integrator) dumpDebugBuffer(prevErr error, buffer string, texel func(i int) types.Vec3) error {
	if prevErr != nil {
		return prevErr
	}

	imgFile := filepath.Join(
		in.opts.DebugDir,
		fmt.Sprintf("debug-%s-%03d-%03d.png", buffer, in.sampleIndex, in.bounceIndex),
	)
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	defer f.Close()

	w, h := in.buffers.width, in.buffers.height
	im := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		v := texel(i).Clamp(0, 1)
		im.SetRGBA(i%w, i/w, color.RGBA{
			R: uint8(v[0] * 255),
			G: uint8(v[1] * 255),
			B: uint8(v[2] * 255),
			A: 255,
		})
	}

	in.logger.Debugf("wrote debug buffer %s", imgFile)
	return png.Encode(f, im)
}

func boolTexel(v bool) types.Vec3 {
	if v {
		return types.Splat3(1)
	}
	return types.Vec3{}
}
