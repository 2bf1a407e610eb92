package integrator

import (
	"math/rand"
	"time"

	"github.com/YitongTseo/WaterSimulationAndRendering/asset/texture"
	"github.com/YitongTseo/WaterSimulationAndRendering/log"
	"github.com/YitongTseo/WaterSimulationAndRendering/scene"
	"github.com/YitongTseo/WaterSimulationAndRendering/tracer"
	"github.com/YitongTseo/WaterSimulationAndRendering/types"
)

// Ray/scene intersection queries over a fixed snapshot of posed surfaces.
type Oracle interface {
	// Get the closest surfel along ray or nil if the ray escapes.
	Intersect(ray *scene.Ray, flags scene.IntersectFlag) *scene.Surfel

	// Returns true if anything lies along ray within its parametric range.
	Occluded(ray *scene.Ray, flags scene.IntersectFlag) bool

	// Number of surfaces visible to the oracle.
	Size() int
}

// A camera that can generate rays through continuous image coordinates.
type Camera interface {
	RayThroughPixel(x, y float32, frameW, frameH int) scene.Ray
}

// Integrator options. Options are read-only while rendering.
type Options struct {
	RaysPerPixel int
	MaxRayDepth  int

	// Halve the final image.
	LowerCameraSensitivity bool

	// Pool tracers are reseeded with Seed + i before every render so
	// repeated renders of the same scene produce the same image.
	Seed int64

	// Buffers to dump after every bounce and the folder to write them to.
	Debug    DebugFlag
	DebugDir string
}

// A path tracer that processes all pixels one stage at a time.
type Integrator struct {
	logger log.Logger

	pool *tracer.Pool

	// Oracle over all surfaces and over the subset that blocks light.
	sceneTree  Oracle
	opaqueTree Oracle

	lights []scene.Light
	sky    scene.Sky

	buffers *bufferSet

	// Render state; valid while Render runs.
	camera      Camera
	frame       *Image
	caustics    *texture.Texture
	opts        Options
	sampleIndex int
	bounceIndex int
}

// Create an integrator for a compiled scene. The intersection oracles are
// built once from the scene's posed surfaces.
func New(pool *tracer.Pool, sc *scene.Scene) (*Integrator, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}

	start := time.Now()
	sceneTree := scene.NewTree(sc.Surfaces)
	opaqueTree := scene.NewOpaqueTree(sc.Surfaces)
	log.New("integrator").Infof(
		"built intersection trees in %d ms; surfaces: %d, opaque: %d",
		time.Since(start).Nanoseconds()/1e6, sceneTree.Size(), opaqueTree.Size(),
	)

	return NewWithOracles(pool, sceneTree, opaqueTree, sc.Lights, sc.Sky)
}

// Create an integrator using the supplied oracles. opaqueTree must only
// contain surfaces that do not transmit light.
func NewWithOracles(pool *tracer.Pool, sceneTree, opaqueTree Oracle, lights []scene.Light, sky scene.Sky) (*Integrator, error) {
	if pool == nil {
		return nil, ErrPoolNotDefined
	}
	if sceneTree == nil || opaqueTree == nil {
		return nil, ErrSceneNotDefined
	}
	if len(lights) == 0 {
		return nil, ErrNoLights
	}
	if sky == nil {
		sky = scene.UniformSky{}
	}

	return &Integrator{
		logger:     log.New("integrator"),
		pool:       pool,
		sceneTree:  sceneTree,
		opaqueTree: opaqueTree,
		lights:     lights,
		sky:        sky,
	}, nil
}

// Render the scene as seen by camera into img. The image is cleared and then
// accumulates every sample and bounce; each sample contributes 1/RaysPerPixel
// of its radiance. A nil caustic texture disables caustics.
func (in *Integrator) Render(camera Camera, img *Image, opts Options, caustics *texture.Texture) (time.Duration, error) {
	if camera == nil {
		return 0, ErrCameraNotDefined
	}
	if img == nil {
		return 0, ErrImageNotDefined
	}
	if img.Width <= 0 || img.Height <= 0 || len(img.Pix) != img.Width*img.Height {
		return 0, ErrInvalidFrameSize
	}
	if opts.RaysPerPixel < 1 {
		return 0, ErrInvalidSampleCount
	}
	if opts.MaxRayDepth < 0 {
		return 0, ErrInvalidRayDepth
	}

	start := time.Now()

	if !in.buffers.Fits(img.Width, img.Height) {
		in.buffers = newBufferSet(img.Width, img.Height)
	}
	in.camera = camera
	in.frame = img
	in.caustics = caustics
	in.opts = opts
	defer in.releaseRenderState()

	in.pool.Reseed(opts.Seed)

	img.Clear()
	pixels := in.buffers.Len()
	for in.sampleIndex = 0; in.sampleIndex < opts.RaysPerPixel; in.sampleIndex++ {
		in.logger.Debugf("rendering sample %d/%d", in.sampleIndex+1, opts.RaysPerPixel)

		in.pool.Run(resetSample.String(), pixels, in.resetSample)
		in.pool.Run(generatePrimaryRays.String(), pixels, in.generatePrimaryRay)

		for in.bounceIndex = 0; in.bounceIndex < opts.MaxRayDepth; in.bounceIndex++ {
			in.pool.Run(findIntersections.String(), pixels, in.findIntersection)
			in.pool.Run(chooseLights.String(), pixels, in.chooseLight)
			if in.opaqueTree.Size() != 0 {
				in.pool.Run(testVisibility.String(), pixels, in.testVisibility)
			}
			in.pool.Run(accumulateRadiance.String(), pixels, in.accumulateRadiance)
			in.pool.Run(continuePaths.String(), pixels, in.continuePath)

			if opts.Debug != 0 {
				if err := in.dumpDebugBuffers(); err != nil {
					return 0, err
				}
			}
		}
	}

	if opts.LowerCameraSensitivity {
		in.pool.Run(lowerCameraSensitivity.String(), pixels, in.halvePixel)
	}

	elapsed := time.Since(start)
	in.logger.Infof("rendered %dx%d frame (%d spp, depth %d) in %d ms", img.Width, img.Height, opts.RaysPerPixel, opts.MaxRayDepth, elapsed.Nanoseconds()/1e6)
	return elapsed, nil
}

func (in *Integrator) releaseRenderState() {
	in.camera = nil
	in.frame = nil
	in.caustics = nil
}

// Start a new sample: reset the path weight to 1/spp. Primary rays always
// start outside the medium.
func (in *Integrator) resetSample(_ *rand.Rand, i int) {
	in.buffers.modulation[i] = types.Splat3(1.0 / float32(in.opts.RaysPerPixel))
	in.buffers.inMedium[i] = false
}

// Aim through the pixel center when taking a single sample; otherwise
// through a random point inside the pixel.
func (in *Integrator) generatePrimaryRay(rng *rand.Rand, i int) {
	x, y := float32(i%in.frame.Width), float32(i/in.frame.Width)
	if in.opts.RaysPerPixel == 1 {
		x, y = x+0.5, y+0.5
	} else {
		x, y = x+rng.Float32(), y+rng.Float32()
	}
	in.buffers.rays[i] = in.camera.RayThroughPixel(x, y, in.frame.Width, in.frame.Height)
}

func (in *Integrator) findIntersection(_ *rand.Rand, i int) {
	in.buffers.surfels[i] = in.sceneTree.Intersect(&in.buffers.rays[i], scene.CoherentRayHint)
}

// Only opaque surfaces cast shadows.
func (in *Integrator) testVisibility(_ *rand.Rand, i int) {
	if in.buffers.surfels[i] == nil {
		return
	}
	in.buffers.shadowed[i] = in.opaqueTree.Occluded(
		&in.buffers.shadowRays[i],
		scene.OcclusionTestOnly|scene.DoNotCullBackfaces|scene.CoherentRayHint,
	)
}

func (in *Integrator) halvePixel(_ *rand.Rand, i int) {
	in.frame.Pix[i] = in.frame.Pix[i].Mul(0.5)
}
