package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// blitVertexCount is the number of vertex invocations per pass: one
// oversized triangle covering the whole viewport after clipping.
const blitVertexCount = 3

// targetFormat is the color target format of the blit pipeline. BGRA8 is
// the universally supported surface format; the readback path converts
// back to RGBA on the CPU.
const targetFormat = gputypes.TextureFormatBGRA8Unorm

// SamplerOptions configures the sampler bound alongside the source texture.
type SamplerOptions struct {
	AddressModeU gputypes.AddressMode
	AddressModeV gputypes.AddressMode
	MagFilter    gputypes.FilterMode
	MinFilter    gputypes.FilterMode
}

// DefaultSamplerOptions returns nearest filtering with edge clamping,
// the presentation default.
func DefaultSamplerOptions() SamplerOptions {
	return SamplerOptions{
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
	}
}

// BlitPipeline owns the GPU objects for the full-screen blit pass: shader
// module, bind group layout, pipeline layout, sampler, and render pipeline.
//
// Bindings (group 0), matched by blit.wgsl bit for bit:
//
//	binding 0: sampled 2D texture (fragment)
//	binding 1: sampler (fragment)
//
// The vertex stage derives the triangle from the vertex index, so the
// pipeline declares no vertex buffers.
type BlitPipeline struct {
	device hal.Device

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	sampler    hal.Sampler
}

// NewBlitPipeline creates a pipeline holder. GPU objects are not created
// until Init is called.
func NewBlitPipeline(device hal.Device) *BlitPipeline {
	return &BlitPipeline{device: device}
}

// Init compiles the blit shader and creates the bind group layout, sampler,
// and render pipeline.
func (p *BlitPipeline) Init(opts SamplerOptions) error {
	if p.pipeline != nil {
		return nil
	}

	// Validate the WGSL through naga before backend compilation; a
	// malformed shader fails here with a source-level error.
	if _, err := compileBlitShaderSPIRV(); err != nil {
		return err
	}

	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "blit_shader",
		Source: hal.ShaderSource{WGSL: blitShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile blit shader: %w", err)
	}
	p.shader = shader

	// Bind group layout:
	//   Binding 0: source texture (texture_2d, fragment)
	//   Binding 1: sampler (fragment)
	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "blit_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		p.Destroy()
		return fmt.Errorf("create blit bind layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "blit_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		p.Destroy()
		return fmt.Errorf("create blit pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "blit_sampler",
		AddressModeU: opts.AddressModeU,
		AddressModeV: opts.AddressModeV,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    opts.MagFilter,
		MinFilter:    opts.MinFilter,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		p.Destroy()
		return fmt.Errorf("create blit sampler: %w", err)
	}
	p.sampler = sampler

	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "blit_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_fullscreen",
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_blit",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    targetFormat,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.Destroy()
		return fmt.Errorf("create blit pipeline: %w", err)
	}
	p.pipeline = pipeline

	slogger().Debug("gpu: blit pipeline created")
	return nil
}

// CreateBindGroup binds a source texture view together with the pass
// sampler. A new bind group is needed whenever the source texture is
// recreated.
func (p *BlitPipeline) CreateBindGroup(view hal.TextureView) (hal.BindGroup, error) {
	if p.pipeline == nil {
		return nil, ErrNotInitialized
	}
	if view == nil {
		return nil, ErrNilTargetView
	}
	return p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "blit_bind",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{
				TextureView: view.NativeHandle(),
			}},
			{Binding: 1, Resource: gputypes.SamplerBinding{
				Sampler: p.sampler.NativeHandle(),
			}},
		},
	})
}

// RecordBlit records the full-screen draw into an open render pass.
func (p *BlitPipeline) RecordBlit(rp hal.RenderPassEncoder, bindGroup hal.BindGroup) {
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, bindGroup, nil)
	rp.Draw(blitVertexCount, 1, 0, 0)
}

// Destroy releases all pipeline resources in reverse creation order.
// Safe to call multiple times or on a partially initialized pipeline.
func (p *BlitPipeline) Destroy() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
