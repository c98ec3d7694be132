// Package gpu implements the GPU side of the frame blit pass.
//
// It is an internal package used by the blit library to present an
// externally rendered frame on a WebGPU device via the gogpu/wgpu Pure Go
// HAL (zero CGO), which supports Vulkan, Metal, and DX12 backends depending
// on the platform.
//
// Key components:
//
//   - BlitPipeline: shader module, bind group layout, sampler, and render
//     pipeline for the full-screen triangle pass
//   - SourceTexture: the sampled texture that receives frame uploads
//   - Blitter: command encoding, submission, CPU readback, and
//     surface presentation
//
// The package receives its hal.Device and hal.Queue from the caller; it
// never creates a device of its own.
package gpu
