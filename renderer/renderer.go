package renderer

import (
	"image"
	"path/filepath"
	"time"

	"github.com/YitongTseo/WaterSimulationAndRendering/asset/texture"
	"github.com/YitongTseo/WaterSimulationAndRendering/log"
	"github.com/YitongTseo/WaterSimulationAndRendering/scene"
	"github.com/YitongTseo/WaterSimulationAndRendering/tracer"
	"github.com/YitongTseo/WaterSimulationAndRendering/tracer/integrator"
)

// Renders still frames of a compiled scene using a cpu worker pool.
type Renderer struct {
	logger log.Logger

	opts       Options
	pool       *tracer.Pool
	integrator *integrator.Integrator
	camera     *scene.Camera
	caustics   *texture.Texture

	// Linear accumulation buffer for the last rendered frame.
	frame *integrator.Image

	stats FrameStats
}

// Create a renderer for sc. The caustic texture is optional.
func New(sc *scene.Scene, caustics *texture.Texture, opts Options) (*Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	logger := log.New("renderer")
	if caustics != nil && opts.CausticScale > 0 && opts.CausticScale != 1 {
		scaled, err := caustics.Scale(opts.CausticScale)
		if err != nil {
			return nil, err
		}
		logger.Infof("rescaled caustic texture from %dx%d to %dx%d", caustics.Width, caustics.Height, scaled.Width, scaled.Height)
		caustics = scaled
	}

	scheduler, _ := opts.blockScheduler()
	pool := tracer.NewPool(opts.Workers, opts.Seed, scheduler)

	in, err := integrator.New(pool, sc)
	if err != nil {
		pool.Close()
		return nil, err
	}

	sc.Camera.SetupProjection(float32(opts.FrameW) / float32(opts.FrameH))

	return &Renderer{
		logger:     logger,
		opts:       opts,
		pool:       pool,
		integrator: in,
		camera:     sc.Camera,
		caustics:   caustics,
		frame:      integrator.NewImage(opts.FrameW, opts.FrameH),
	}, nil
}

// Render a frame and return the linear radiance image. The returned image
// is owned by the renderer and is overwritten by the next call to Render.
func (r *Renderer) Render() (*integrator.Image, time.Duration, error) {
	r.pool.ResetStats()

	elapsed, err := r.integrator.Render(r.camera, r.frame, r.opts.integratorOptions(), r.caustics)
	if err != nil {
		return nil, 0, err
	}

	r.stats = FrameStats{
		FrameW:       r.opts.FrameW,
		FrameH:       r.opts.FrameH,
		RaysPerPixel: r.opts.RaysPerPixel,
		Stages:       r.pool.Stats(),
		RenderTime:   elapsed,
	}

	if r.opts.Save {
		imgFile := r.OutputFile()
		start := time.Now()
		if err = SavePNG(r.Image(), imgFile); err != nil {
			return nil, 0, err
		}
		r.logger.Noticef("wrote frame to %s in %d ms", imgFile, time.Since(start).Nanoseconds()/1e6)
	}

	return r.frame, elapsed, nil
}

// Get the tone-mapped version of the last rendered frame.
func (r *Renderer) Image() *image.RGBA {
	return ToneMap(r.frame, r.opts.Exposure)
}

// The file the frame is written to when saving is enabled.
func (r *Renderer) OutputFile() string {
	return filepath.Clean(r.opts.Name + ".png")
}

// Get render statistics for the last frame.
func (r *Renderer) Stats() FrameStats {
	return r.stats
}

// Shutdown renderer and its worker pool.
func (r *Renderer) Close() {
	r.pool.Close()
}
