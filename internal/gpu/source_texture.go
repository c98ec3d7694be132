package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// sourceBytesPerPixel is the byte size of one source pixel (straight RGBA).
const sourceBytesPerPixel = 4

// SourceTexture owns the sampled 2D texture that receives externally
// rendered frames. The texture is recreated only when the frame size
// changes; same-size uploads reuse the existing allocation.
//
// SourceTexture is not safe for concurrent use; the owning Blitter
// serializes access.
type SourceTexture struct {
	device hal.Device
	queue  hal.Queue

	tex    hal.Texture
	view   hal.TextureView
	width  uint32
	height uint32
}

// NewSourceTexture creates an empty source texture holder. No GPU resources
// are allocated until the first EnsureSize call.
func NewSourceTexture(device hal.Device, queue hal.Queue) *SourceTexture {
	return &SourceTexture{device: device, queue: queue}
}

// EnsureSize creates or recreates the texture for the given dimensions.
// Returns true when the texture (and therefore its view) was recreated,
// so the caller can rebuild bind groups referencing it.
func (t *SourceTexture) EnsureSize(width, height uint32) (bool, error) {
	if width == 0 || height == 0 {
		return false, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if t.tex != nil && t.width == width && t.height == height {
		return false, nil
	}

	t.Destroy()

	tex, err := t.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "blit_source",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return false, fmt.Errorf("create source texture: %w", err)
	}

	view, err := t.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "blit_source_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.device.DestroyTexture(tex)
		return false, fmt.Errorf("create source texture view: %w", err)
	}

	t.tex = tex
	t.view = view
	t.width = width
	t.height = height
	slogger().Debug("gpu: source texture created", "width", width, "height", height)
	return true, nil
}

// Upload writes a full frame of RGBA pixels into the texture.
// The dimensions must match the current texture size.
func (t *SourceTexture) Upload(pix []byte, width, height uint32) error {
	if t.tex == nil {
		return ErrNotInitialized
	}
	if width != t.width || height != t.height {
		return fmt.Errorf("%w: upload %dx%d into %dx%d texture",
			ErrInvalidSize, width, height, t.width, t.height)
	}
	need := int(width) * int(height) * sourceBytesPerPixel
	if len(pix) < need {
		return fmt.Errorf("%w: %d bytes for %dx%d frame", ErrInvalidSize, len(pix), width, height)
	}

	t.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: 0,
		},
		pix[:need],
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  width * sourceBytesPerPixel,
			RowsPerImage: height,
		},
		&hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	)
	return nil
}

// UploadRegion writes a sub-rectangle of RGBA pixels into the texture.
// pix holds the region's rows tightly packed (width*4 bytes per row).
func (t *SourceTexture) UploadRegion(pix []byte, x, y, width, height uint32) error {
	if t.tex == nil {
		return ErrNotInitialized
	}
	if width == 0 || height == 0 || x+width > t.width || y+height > t.height {
		return fmt.Errorf("%w: region %dx%d at (%d,%d) in %dx%d texture",
			ErrInvalidSize, width, height, x, y, t.width, t.height)
	}
	need := int(width) * int(height) * sourceBytesPerPixel
	if len(pix) < need {
		return fmt.Errorf("%w: %d bytes for %dx%d region", ErrInvalidSize, len(pix), width, height)
	}

	t.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: x, Y: y, Z: 0},
			Aspect:   gputypes.TextureAspectAll,
		},
		pix[:need],
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  width * sourceBytesPerPixel,
			RowsPerImage: height,
		},
		&hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	)
	return nil
}

// View returns the texture view for binding, or nil before EnsureSize.
func (t *SourceTexture) View() hal.TextureView { return t.view }

// Width returns the current texture width in pixels.
func (t *SourceTexture) Width() uint32 { return t.width }

// Height returns the current texture height in pixels.
func (t *SourceTexture) Height() uint32 { return t.height }

// Destroy releases the texture and view. Safe to call multiple times.
func (t *SourceTexture) Destroy() {
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		t.device.DestroyTexture(t.tex)
		t.tex = nil
	}
	t.width = 0
	t.height = 0
}
