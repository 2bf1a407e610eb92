package renderer

import (
	"fmt"
	"strings"

	"github.com/YitongTseo/WaterSimulationAndRendering/tracer"
	"github.com/YitongTseo/WaterSimulationAndRendering/tracer/integrator"
)

// Predefined frame sizes.
type Resolution uint8

const (
	Pixel Resolution = iota
	VerySmall
	Small
	Medium
	Large
	VeryLarge
)

var resolutionDims = [...][2]int{
	Pixel:     {1, 1},
	VerySmall: {10, 10},
	Small:     {100, 100},
	Medium:    {320, 200},
	Large:     {640, 400},
	VeryLarge: {1280, 720},
}

var resolutionNames = [...]string{
	Pixel:     "pixel",
	VerySmall: "verysmall",
	Small:     "small",
	Medium:    "medium",
	Large:     "large",
	VeryLarge: "vlarge",
}

// Parse a resolution class name.
func ParseResolution(name string) (Resolution, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for res, resName := range resolutionNames {
		if name == resName {
			return Resolution(res), nil
		}
	}
	return Pixel, fmt.Errorf("renderer: unknown resolution %q", name)
}

// Width and height of the resolution class.
func (r Resolution) Dims() (int, int) {
	if int(r) >= len(resolutionDims) {
		panic(fmt.Sprintf("Unsupported resolution: %d", r))
	}
	return resolutionDims[r][0], resolutionDims[r][1]
}

func (r Resolution) String() string {
	if int(r) >= len(resolutionNames) {
		panic(fmt.Sprintf("Unsupported resolution: %d", r))
	}
	return resolutionNames[r]
}

type Options struct {
	// Frame dims.
	FrameW int
	FrameH int

	// Number of samples.
	RaysPerPixel int

	// Number of bounces traced for every sample.
	MaxRayDepth int

	// Halve the brightness of the final image.
	LowerCameraSensitivity bool

	// Exposure for tonemapping.
	Exposure float32

	// Output image is written to Name + ".png" when Save is set.
	Name string
	Save bool

	// Worker pool setup. A non-positive worker count uses all cpus.
	Workers   int
	Scheduler string
	Seed      int64

	// Rescale the caustic texture by this factor before rendering. Values
	// of 0 or 1 leave the texture untouched.
	CausticScale float32

	// Debug buffer dumps.
	Debug    integrator.DebugFlag
	DebugDir string
}

// Get the default render options.
func DefaultOptions() Options {
	w, h := Medium.Dims()
	return Options{
		FrameW:                 w,
		FrameH:                 h,
		RaysPerPixel:           32,
		MaxRayDepth:            5,
		LowerCameraSensitivity: true,
		Exposure:               1.0,
		Name:                   "beautifulWaves",
		Scheduler:              "naive",
		Seed:                   1,
		DebugDir:               ".",
	}
}

// Set frame dimensions from a resolution class.
func (o *Options) SetResolution(r Resolution) {
	o.FrameW, o.FrameH = r.Dims()
}

// Check that the options describe a renderable frame.
func (o *Options) Validate() error {
	if o.FrameW <= 0 || o.FrameH <= 0 {
		return ErrInvalidFrameSize
	}
	if o.RaysPerPixel < 1 {
		return ErrInvalidSampleCount
	}
	if o.MaxRayDepth < 0 {
		return ErrInvalidRayDepth
	}
	if o.Exposure <= 0 {
		return ErrInvalidExposure
	}
	if _, err := o.blockScheduler(); err != nil {
		return err
	}
	return nil
}

func (o *Options) blockScheduler() (tracer.BlockScheduler, error) {
	switch strings.ToLower(o.Scheduler) {
	case "", "naive":
		return tracer.NaiveScheduler(), nil
	case "perfect":
		return tracer.PerfectScheduler(), nil
	}
	return nil, ErrUnknownScheduler
}

func (o *Options) integratorOptions() integrator.Options {
	return integrator.Options{
		RaysPerPixel:           o.RaysPerPixel,
		MaxRayDepth:            o.MaxRayDepth,
		LowerCameraSensitivity: o.LowerCameraSensitivity,
		Seed:                   o.Seed,
		Debug:                  o.Debug,
		DebugDir:               o.DebugDir,
	}
}
