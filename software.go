package blit

// SoftwareBlitter runs the full-screen pass on the CPU and is the reference
// implementation of its semantics: every destination pixel's texture
// coordinate is interpolated from the triangle table, the source frame is
// sampled through the sampler configuration, and the sampled green channel
// is written to R, G, and B with opaque alpha.
//
// The pass is stateless and deterministic: re-running it with unchanged
// inputs produces bit-identical output.
type SoftwareBlitter struct{}

// Blit renders the pass into dst, which acts as the viewport. Pixel centers
// map to clip space with row 0 at clip y = +1, matching what the GPU
// rasterizer produces for the same triangle.
func (SoftwareBlitter) Blit(dst, src *Frame, cfg SamplerConfig) error {
	if dst == nil || src == nil {
		return ErrNilFrame
	}

	w, h := dst.width, dst.height
	for py := 0; py < h; py++ {
		y := 1 - 2*(float64(py)+0.5)/float64(h)
		for px := 0; px < w; px++ {
			x := 2*(float64(px)+0.5)/float64(w) - 1
			u, v := TexCoordAt(x, y)
			_, g, _, _ := cfg.Sample(src, u, v)
			dst.SetRGBA(px, py, g, g, g, 0xFF)
		}
	}
	return nil
}
