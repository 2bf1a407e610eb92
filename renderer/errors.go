package renderer

import "errors"

var (
	ErrSceneNotDefined    = errors.New("renderer: no scene defined")
	ErrCameraNotDefined   = errors.New("renderer: no camera defined")
	ErrInvalidFrameSize   = errors.New("renderer: frame dimensions must be positive")
	ErrInvalidSampleCount = errors.New("renderer: rays per pixel must be at least 1")
	ErrInvalidRayDepth    = errors.New("renderer: max ray depth must not be negative")
	ErrInvalidExposure    = errors.New("renderer: exposure must be positive")
	ErrUnknownScheduler   = errors.New("renderer: unknown block scheduler")
)
