package gpu

import "errors"

// Blit pass errors.
var (
	// ErrNilDevice is returned when a Blitter is created without a device.
	ErrNilDevice = errors.New("gpu: device is nil")

	// ErrNilQueue is returned when a Blitter is created without a queue.
	ErrNilQueue = errors.New("gpu: queue is nil")

	// ErrNotInitialized is returned when the pipeline has not been created.
	ErrNotInitialized = errors.New("gpu: blit pipeline not initialized")

	// ErrNoSource is returned when rendering before any frame upload.
	ErrNoSource = errors.New("gpu: source texture has no contents")

	// ErrNilTargetView is returned when presenting to a nil texture view.
	ErrNilTargetView = errors.New("gpu: target texture view is nil")

	// ErrInvalidSize is returned for zero or negative texture dimensions.
	ErrInvalidSize = errors.New("gpu: invalid texture size")

	// ErrReleased is returned when operating on a destroyed Blitter.
	ErrReleased = errors.New("gpu: blitter already released")
)
