package integrator

import "errors"

var (
	ErrPoolNotDefined     = errors.New("integrator: no tracer pool defined")
	ErrSceneNotDefined    = errors.New("integrator: no scene defined")
	ErrNoLights           = errors.New("integrator: scene does not define any lights")
	ErrCameraNotDefined   = errors.New("integrator: no camera defined")
	ErrImageNotDefined    = errors.New("integrator: no output image defined")
	ErrInvalidFrameSize   = errors.New("integrator: output image dimensions must be > 0")
	ErrInvalidSampleCount = errors.New("integrator: rays per pixel must be >= 1")
	ErrInvalidRayDepth    = errors.New("integrator: max ray depth must be >= 0")
)
