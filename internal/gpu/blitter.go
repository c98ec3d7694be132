package gpu

import (
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// clearColor is the load clear of the blit pass. It is visible only where
// the target is left uncovered, which the full-screen triangle never leaves.
var clearColor = gputypes.Color{R: 0, G: 0.2, B: 0.5, A: 1}

// fenceTimeout bounds the wait for pass completion.
const fenceTimeout = 5 * time.Second

// copyPitchAlignment is the row alignment WebGPU (and DX12) require for
// texture-to-buffer copies.
const copyPitchAlignment = 256

// Blitter runs the full-screen blit pass on a HAL device: it owns the
// pipeline, the source texture receiving frame uploads, and an offscreen
// color target for the CPU readback path.
//
// Blitter is safe for concurrent use.
type Blitter struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue

	pipeline  *BlitPipeline
	source    *SourceTexture
	bindGroup hal.BindGroup
	uploaded  bool
	released  bool

	// Offscreen color target for RenderToPixels, recreated only when the
	// requested output size changes.
	targetTex    hal.Texture
	targetView   hal.TextureView
	targetWidth  uint32
	targetHeight uint32
}

// NewBlitter creates a Blitter on the given device and queue and builds the
// render pipeline up front. The device and queue are owned by the caller.
func NewBlitter(device hal.Device, queue hal.Queue, opts SamplerOptions) (*Blitter, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if queue == nil {
		return nil, ErrNilQueue
	}

	pipeline := NewBlitPipeline(device)
	if err := pipeline.Init(opts); err != nil {
		return nil, fmt.Errorf("init blit pipeline: %w", err)
	}

	return &Blitter{
		device:   device,
		queue:    queue,
		pipeline: pipeline,
		source:   NewSourceTexture(device, queue),
	}, nil
}

// UploadFrame uploads a full frame of RGBA pixels to the source texture,
// recreating the texture and its bind group when the size changed.
func (b *Blitter) UploadFrame(pix []byte, width, height uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return ErrReleased
	}

	recreated, err := b.source.EnsureSize(width, height)
	if err != nil {
		return err
	}
	if recreated {
		if b.bindGroup != nil {
			b.device.DestroyBindGroup(b.bindGroup)
			b.bindGroup = nil
		}
		bg, err := b.pipeline.CreateBindGroup(b.source.View())
		if err != nil {
			return fmt.Errorf("create blit bind group: %w", err)
		}
		b.bindGroup = bg
	}

	if err := b.source.Upload(pix, width, height); err != nil {
		return err
	}
	b.uploaded = true
	return nil
}

// UploadRegion uploads a sub-rectangle of RGBA pixels to the source texture.
// The texture must already exist at its current size; use UploadFrame for
// the first upload or after a resize.
func (b *Blitter) UploadRegion(pix []byte, x, y, width, height uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return ErrReleased
	}
	if !b.uploaded {
		return ErrNoSource
	}
	return b.source.UploadRegion(pix, x, y, width, height)
}

// SourceSize returns the current source texture dimensions (0,0 before the
// first upload).
func (b *Blitter) SourceSize() (width, height uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.source.Width(), b.source.Height()
}

// RenderToPixels runs the blit pass into an offscreen target of the given
// size and reads the result back as tightly packed RGBA pixels into dst.
func (b *Blitter) RenderToPixels(dst []byte, width, height uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return ErrReleased
	}
	if !b.uploaded || b.bindGroup == nil {
		return ErrNoSource
	}
	if width == 0 || height == 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	need := int(width) * int(height) * 4
	if len(dst) < need {
		return fmt.Errorf("%w: dst holds %d bytes, need %d", ErrInvalidSize, len(dst), need)
	}

	if err := b.ensureTarget(width, height); err != nil {
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "blit_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("blit_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "blit_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       b.targetView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clearColor,
		}},
	})
	b.pipeline.RecordBlit(rp, b.bindGroup)
	rp.End()

	// The target leaves the pass in attachment layout; the copy below
	// needs transfer-source. No-op on backends without explicit layouts.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: b.targetTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	bytesPerRow := width * 4
	alignedBytesPerRow := alignBytesPerRow(bytesPerRow)
	stagingSize := uint64(alignedBytesPerRow) * uint64(height)

	stagingBuf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "blit_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer b.device.DestroyBuffer(stagingBuf)

	encoder.CopyTextureToBuffer(b.targetTex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: height},
		TextureBase:  hal.ImageCopyTexture{Texture: b.targetTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	}})

	// Return the target to attachment layout for the next pass.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: b.targetTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	fence, err := b.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer b.device.DestroyFence(fence)

	if err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := b.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, stagingSize)
	if err := b.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}

	// Strip row padding (if any) and convert BGRA to RGBA.
	if alignedBytesPerRow == bytesPerRow {
		convertBGRAToRGBA(readback[:need], dst, int(width)*int(height))
	} else {
		tight := make([]byte, uint64(bytesPerRow)*uint64(height))
		for row := uint32(0); row < height; row++ {
			srcOff := int(row) * int(alignedBytesPerRow)
			dstOff := int(row) * int(bytesPerRow)
			copy(tight[dstOff:dstOff+int(bytesPerRow)], readback[srcOff:srcOff+int(bytesPerRow)])
		}
		convertBGRAToRGBA(tight, dst, int(width)*int(height))
	}
	return nil
}

// Present runs the blit pass directly into a caller-provided texture view:
// the zero-copy surface path, no staging buffer and no readback. The caller
// presents the surface after this returns.
func (b *Blitter) Present(view hal.TextureView) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return ErrReleased
	}
	if view == nil {
		return ErrNilTargetView
	}
	if !b.uploaded || b.bindGroup == nil {
		return ErrNoSource
	}

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "blit_surface_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("blit_surface_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "blit_surface_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clearColor,
		}},
	})
	b.pipeline.RecordBlit(rp, b.bindGroup)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	fence, err := b.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer b.device.DestroyFence(fence)

	if err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}

	// Wait for the pass to finish before the surface is presented.
	fenceOK, err := b.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}

// ensureTarget (re)creates the offscreen color target only when the
// requested size differs from the current one.
func (b *Blitter) ensureTarget(width, height uint32) error {
	if b.targetTex != nil && b.targetWidth == width && b.targetHeight == height {
		return nil
	}

	b.destroyTarget()

	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "blit_target",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        targetFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create target texture: %w", err)
	}

	view, err := b.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "blit_target_view",
		Format:        targetFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		b.device.DestroyTexture(tex)
		return fmt.Errorf("create target view: %w", err)
	}

	b.targetTex = tex
	b.targetView = view
	b.targetWidth = width
	b.targetHeight = height
	slogger().Debug("gpu: blit target created", "width", width, "height", height)
	return nil
}

// destroyTarget releases the offscreen color target.
func (b *Blitter) destroyTarget() {
	if b.targetView != nil {
		b.device.DestroyTextureView(b.targetView)
		b.targetView = nil
	}
	if b.targetTex != nil {
		b.device.DestroyTexture(b.targetTex)
		b.targetTex = nil
	}
	b.targetWidth = 0
	b.targetHeight = 0
}

// Destroy releases all GPU resources held by the Blitter. Safe to call
// multiple times.
func (b *Blitter) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return
	}
	b.released = true

	b.destroyTarget()
	if b.bindGroup != nil {
		b.device.DestroyBindGroup(b.bindGroup)
		b.bindGroup = nil
	}
	if b.source != nil {
		b.source.Destroy()
	}
	if b.pipeline != nil {
		b.pipeline.Destroy()
	}
}

// alignBytesPerRow rounds a row pitch up to the copy pitch alignment.
func alignBytesPerRow(n uint32) uint32 {
	return (n + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
}

// convertBGRAToRGBA swaps the B and R channels of count pixels from src
// into dst. src and dst may not alias.
func convertBGRAToRGBA(src, dst []byte, count int) {
	for i := 0; i < count; i++ {
		off := i * 4
		dst[off+0] = src[off+2]
		dst[off+1] = src[off+1]
		dst[off+2] = src[off+0]
		dst[off+3] = src[off+3]
	}
}
