// Package blit presents externally rendered frames on a destination image
// or GPU surface via a full-screen blit pass.
//
// The pass rasterizes a single oversized triangle that exactly covers the
// viewport after clipping, samples the source frame through a configurable
// sampler, and writes the sampled green channel replicated across R, G,
// and B with opaque alpha. The same semantics are available two ways:
//
//   - A software pass (SoftwareBlitter) that runs entirely on the CPU and
//     serves as the reference implementation.
//   - A GPU pass over the gogpu/wgpu HAL, driven through Presenter when a
//     device is attached with SetDeviceProvider.
//
// Presenter is the high-level entry point for embedding: feed it the pixel
// buffers an off-screen compositor produces (HandlePaint), then render to
// CPU pixels (RenderTo) or straight into a surface texture view (Present).
//
// blit receives its GPU device from the host application; it never creates
// one of its own. Logging is silent by default; see SetLogger.
package blit
