package blit

import (
	"math"

	"github.com/gogpu/gputypes"
)

// AddressMode controls how texture coordinates outside [0,1] resolve.
// The blit pass itself performs no bounds checks; the address mode governs
// out-of-range sampling entirely.
type AddressMode uint8

const (
	// AddressClampToEdge clamps coordinates to the edge texels.
	AddressClampToEdge AddressMode = iota

	// AddressRepeat tiles the texture by wrapping the coordinate.
	AddressRepeat

	// AddressMirrorRepeat tiles the texture, mirroring every other repeat.
	AddressMirrorRepeat
)

// String returns a string representation of the address mode.
func (m AddressMode) String() string {
	switch m {
	case AddressClampToEdge:
		return "ClampToEdge"
	case AddressRepeat:
		return "Repeat"
	case AddressMirrorRepeat:
		return "MirrorRepeat"
	default:
		return "Unknown"
	}
}

// ToGPU converts the address mode to its wgpu equivalent.
func (m AddressMode) ToGPU() gputypes.AddressMode {
	switch m {
	case AddressRepeat:
		return gputypes.AddressModeRepeat
	case AddressMirrorRepeat:
		return gputypes.AddressModeMirrorRepeat
	default:
		return gputypes.AddressModeClampToEdge
	}
}

// FilterMode selects how the sampler interpolates between texels.
type FilterMode uint8

const (
	// FilterNearest selects the closest texel (no interpolation).
	FilterNearest FilterMode = iota

	// FilterLinear interpolates between the four neighboring texels.
	FilterLinear
)

// String returns a string representation of the filter mode.
func (m FilterMode) String() string {
	switch m {
	case FilterNearest:
		return "Nearest"
	case FilterLinear:
		return "Linear"
	default:
		return "Unknown"
	}
}

// ToGPU converts the filter mode to its wgpu equivalent.
func (m FilterMode) ToGPU() gputypes.FilterMode {
	if m == FilterLinear {
		return gputypes.FilterModeLinear
	}
	return gputypes.FilterModeNearest
}

// SamplerConfig describes the sampler bound alongside the source image.
// It applies identically to the GPU pass (as a hal sampler) and to the
// software pass (as CPU sampling below).
type SamplerConfig struct {
	AddressModeU AddressMode
	AddressModeV AddressMode
	MagFilter    FilterMode
	MinFilter    FilterMode
}

// NearestClamp returns the presentation default: nearest filtering with
// edge clamping.
func NearestClamp() SamplerConfig {
	return SamplerConfig{
		AddressModeU: AddressClampToEdge,
		AddressModeV: AddressClampToEdge,
		MagFilter:    FilterNearest,
		MinFilter:    FilterNearest,
	}
}

// LinearClamp returns bilinear filtering with edge clamping.
func LinearClamp() SamplerConfig {
	return SamplerConfig{
		AddressModeU: AddressClampToEdge,
		AddressModeV: AddressClampToEdge,
		MagFilter:    FilterLinear,
		MinFilter:    FilterLinear,
	}
}

// Sample reads the frame at normalized coordinates (u, v) through the
// sampler configuration. (0,0) addresses the top-left texel area and
// (1,1) the bottom-right. The CPU path filters with MagFilter; the blit
// pass never minifies through mip levels.
func (c SamplerConfig) Sample(f *Frame, u, v float64) (r, g, b, a byte) {
	u = wrapCoord(u, c.AddressModeU)
	v = wrapCoord(v, c.AddressModeV)
	if c.MagFilter == FilterLinear {
		return sampleBilinear(f, u, v)
	}
	return sampleNearest(f, u, v)
}

// wrapCoord resolves an out-of-range coordinate per the address mode,
// returning a value in [0, 1].
func wrapCoord(t float64, mode AddressMode) float64 {
	switch mode {
	case AddressRepeat:
		t -= math.Floor(t)
		return t
	case AddressMirrorRepeat:
		t = math.Abs(t)
		t = math.Mod(t, 2)
		if t > 1 {
			t = 2 - t
		}
		return t
	default: // clamp to edge
		if t < 0 {
			return 0
		}
		if t > 1 {
			return 1
		}
		return t
	}
}

// sampleNearest selects the texel containing (u, v).
// Floor picks the texel whose area contains the coordinate; the result is
// clamped so u = 1.0 and v = 1.0 stay on the last texel.
func sampleNearest(f *Frame, u, v float64) (r, g, b, a byte) {
	x := int(math.Floor(u * float64(f.width)))
	y := int(math.Floor(v * float64(f.height)))
	x = clampInt(x, 0, f.width-1)
	y = clampInt(y, 0, f.height-1)
	return f.At(x, y)
}

// sampleBilinear interpolates the four texels around the continuous
// coordinate (u*w - 0.5, v*h - 0.5) with linear weights.
func sampleBilinear(f *Frame, u, v float64) (r, g, b, a byte) {
	fx := u*float64(f.width) - 0.5
	fy := v*float64(f.height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := clampInt(x0+1, 0, f.width-1)
	y1 := clampInt(y0+1, 0, f.height-1)
	x0 = clampInt(x0, 0, f.width-1)
	y0 = clampInt(y0, 0, f.height-1)

	r00, g00, b00, a00 := f.At(x0, y0)
	r10, g10, b10, a10 := f.At(x1, y0)
	r01, g01, b01, a01 := f.At(x0, y1)
	r11, g11, b11, a11 := f.At(x1, y1)

	r = byte(lerp2D(float64(r00), float64(r10), float64(r01), float64(r11), tx, ty))
	g = byte(lerp2D(float64(g00), float64(g10), float64(g01), float64(g11), tx, ty))
	b = byte(lerp2D(float64(b00), float64(b10), float64(b01), float64(b11), tx, ty))
	a = byte(lerp2D(float64(a00), float64(a10), float64(a01), float64(a11), tx, ty))
	return r, g, b, a
}

// clampInt clamps an integer to [minVal, maxVal].
func clampInt(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// lerp performs linear interpolation between a and b.
func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// lerp2D performs bilinear interpolation on a 2x2 grid.
func lerp2D(v00, v10, v01, v11, tx, ty float64) float64 {
	v0 := lerp(v00, v10, tx)
	v1 := lerp(v01, v11, tx)
	return lerp(v0, v1, ty)
}
