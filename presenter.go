package blit

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/wgpu/hal"

	"github.com/dungeonfog/blit/internal/dirty"
	"github.com/dungeonfog/blit/internal/gpu"
)

// Presenter errors.
var (
	// ErrNoFrame is returned when rendering before the first HandlePaint.
	ErrNoFrame = errors.New("blit: no frame painted yet")

	// ErrNoDevice is returned by Present when no GPU device is attached.
	ErrNoDevice = errors.New("blit: no GPU device attached")

	// ErrPresenterClosed is returned when operating on a closed presenter.
	ErrPresenterClosed = errors.New("blit: presenter is closed")
)

// Presenter composites externally rendered frames onto a destination via
// the full-screen blit pass.
//
// Frames arrive as raw pixel buffers from an off-screen compositor
// (HandlePaint). The presenter converts them to its internal layout, tracks
// dirty regions, and uploads to the GPU source texture when a device is
// attached. Rendering goes either back to CPU pixels (RenderTo,
// RenderFrame) or straight into a caller-provided surface texture view
// (Present). Without a device, every render uses the software pass, which
// matches the GPU pass exactly under nearest filtering.
//
// Presenter is safe for concurrent use.
type Presenter struct {
	mu sync.Mutex

	sampler SamplerConfig
	source  *Frame
	region  *dirty.Region

	// Output size for RenderFrame, set by Resize.
	outWidth  int
	outHeight int

	soft    SoftwareBlitter
	blitter *gpu.Blitter
	closed  bool
}

// NewPresenter creates a presenter with the given sampler configuration.
// No GPU resources exist until SetDeviceProvider is called; until then all
// rendering is done by the software pass.
func NewPresenter(sampler SamplerConfig) *Presenter {
	return &Presenter{sampler: sampler}
}

// SetDeviceProvider switches the presenter to a shared GPU device from a
// host provider. The provider must implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue.
//
// The current frame, if any, is re-uploaded to the new device.
func (p *Presenter) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("blit: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("blit: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("blit: provider HalQueue is not hal.Queue")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPresenterClosed
	}

	if p.blitter != nil {
		p.blitter.Destroy()
		p.blitter = nil
	}

	b, err := gpu.NewBlitter(device, queue, gpu.SamplerOptions{
		AddressModeU: p.sampler.AddressModeU.ToGPU(),
		AddressModeV: p.sampler.AddressModeV.ToGPU(),
		MagFilter:    p.sampler.MagFilter.ToGPU(),
		MinFilter:    p.sampler.MinFilter.ToGPU(),
	})
	if err != nil {
		return fmt.Errorf("blit: attach device: %w", err)
	}
	p.blitter = b

	// Replay the current frame onto the new device.
	if p.source != nil {
		if err := p.uploadLocked(false); err != nil {
			return err
		}
	}

	Logger().Info("blit: GPU device attached")
	return nil
}

// HandlePaint ingests one frame from the external compositor.
//
// buffer holds width*height pixels in the given format. dirtyRects lists
// the areas the compositor repainted since the last paint; an empty list
// means the whole frame changed. When the frame size is unchanged and
// dirty rects are given, only the coalesced dirty rectangle is uploaded
// to the GPU source texture; the dirty region is retained until the frame
// is rendered or presented.
func (p *Presenter) HandlePaint(buffer []byte, width, height int, format PixelFormat, dirtyRects []image.Rectangle) error {
	frame, err := NewFrameFromBytes(buffer, width, height, format)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPresenterClosed
	}

	resized := p.source == nil || p.source.width != width || p.source.height != height
	p.source = frame

	switch {
	case resized:
		// Size changed: new tracker, everything dirty. GPU textures are
		// recreated lazily on upload.
		p.region = dirty.NewRegion(width, height)
		p.region.MarkAll()
	case len(dirtyRects) == 0:
		p.region.MarkAll()
	default:
		for _, r := range dirtyRects {
			p.region.MarkRect(r)
		}
	}

	if p.blitter != nil {
		if err := p.uploadLocked(!resized && len(dirtyRects) > 0); err != nil {
			return err
		}
	}

	Logger().Debug("blit: frame painted",
		"width", width, "height", height,
		"resized", resized, "dirty", p.region.Bounds())
	return nil
}

// Resize sets the output size used by RenderFrame. A call with the current
// size is a no-op; render targets are recreated only when the size changed.
func (p *Presenter) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidFrameSize, width, height)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPresenterClosed
	}
	if width == p.outWidth && height == p.outHeight {
		return nil
	}
	p.outWidth = width
	p.outHeight = height
	Logger().Debug("blit: output resized", "width", width, "height", height)
	return nil
}

// RenderTo runs the blit pass into dst. The GPU pass with CPU readback is
// used when a device is attached, the software pass otherwise. With
// nearest filtering the two paths produce identical pixels; bilinear
// rounding may differ by a backend-dependent ULP. The dirty region is
// cleared on success.
func (p *Presenter) RenderTo(dst *Frame) error {
	if dst == nil {
		return ErrNilFrame
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.renderToLocked(dst)
}

// RenderFrame runs the blit pass into a new frame of the size set by
// Resize, defaulting to the source frame's size.
func (p *Presenter) RenderFrame() (*Frame, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.source == nil {
		return nil, ErrNoFrame
	}

	w, h := p.outWidth, p.outHeight
	if w == 0 || h == 0 {
		w, h = p.source.width, p.source.height
	}
	dst, err := NewFrame(w, h)
	if err != nil {
		return nil, err
	}
	if err := p.renderToLocked(dst); err != nil {
		return nil, err
	}
	return dst, nil
}

// Present runs the blit pass directly into a caller-provided surface
// texture view (a hal.TextureView): the zero-copy path, no readback. The
// caller presents the surface after this returns. Requires an attached
// device.
func (p *Presenter) Present(view any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPresenterClosed
	}
	if p.blitter == nil {
		return ErrNoDevice
	}
	if p.source == nil {
		return ErrNoFrame
	}

	halView, ok := view.(hal.TextureView)
	if !ok || halView == nil {
		return fmt.Errorf("blit: view is not hal.TextureView")
	}

	if err := p.blitter.Present(halView); err != nil {
		return fmt.Errorf("blit: present: %w", err)
	}
	p.region.Clear()
	return nil
}

// DirtyBounds returns the union pixel rectangle of everything painted
// since the last successful render or present. The zero rectangle means
// nothing is pending.
func (p *Presenter) DirtyBounds() image.Rectangle {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.region == nil {
		return image.Rectangle{}
	}
	return p.region.Bounds()
}

// SourceSize returns the dimensions of the last painted frame (0,0 before
// the first HandlePaint).
func (p *Presenter) SourceSize() (width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.source == nil {
		return 0, 0
	}
	return p.source.width, p.source.height
}

// Close releases GPU resources. The presenter cannot be used afterwards.
// Safe to call multiple times.
func (p *Presenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if p.blitter != nil {
		p.blitter.Destroy()
		p.blitter = nil
	}
}

// uploadLocked pushes the current frame to the GPU source texture. When
// partial is true and the texture already holds a frame of the same size,
// only the coalesced dirty rectangle is written. Caller holds p.mu.
func (p *Presenter) uploadLocked(partial bool) error {
	if partial {
		if w, h := p.blitter.SourceSize(); int(w) == p.source.width && int(h) == p.source.height {
			r := p.region.Bounds()
			if r.Empty() {
				return nil
			}
			if r.Dx() < p.source.width || r.Dy() < p.source.height {
				err := p.blitter.UploadRegion(p.source.pixRect(r),
					uint32(r.Min.X), uint32(r.Min.Y), uint32(r.Dx()), uint32(r.Dy()))
				if err != nil {
					return fmt.Errorf("blit: upload region: %w", err)
				}
				return nil
			}
		}
	}

	err := p.blitter.UploadFrame(p.source.pix,
		uint32(p.source.width), uint32(p.source.height))
	if err != nil {
		return fmt.Errorf("blit: upload frame: %w", err)
	}
	return nil
}

// renderToLocked runs the pass into dst. Caller holds p.mu.
func (p *Presenter) renderToLocked(dst *Frame) error {
	if p.closed {
		return ErrPresenterClosed
	}
	if p.source == nil {
		return ErrNoFrame
	}

	if p.blitter != nil {
		err := p.blitter.RenderToPixels(dst.pix, uint32(dst.width), uint32(dst.height))
		if err != nil {
			return fmt.Errorf("blit: render: %w", err)
		}
	} else {
		if err := p.soft.Blit(dst, p.source, p.sampler); err != nil {
			return err
		}
	}
	p.region.Clear()
	return nil
}
