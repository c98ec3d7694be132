package blit

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

// floatByte converts a normalized channel value to its 8-bit encoding.
func floatByte(v float64) byte {
	return byte(math.Round(v * 255))
}

func TestBlitUniformSource(t *testing.T) {
	// A uniform 1x1 source sampled nearest/clamp must fill every covered
	// pixel with the source green replicated across RGB and opaque alpha.
	src, err := NewFrame(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	src.SetRGBA(0, 0, floatByte(0.2), floatByte(0.7), floatByte(0.9), floatByte(1.0))

	wantG := floatByte(0.7)
	sizes := [][2]int{{1, 1}, {4, 4}, {16, 9}, {33, 7}, {128, 128}}

	var blitter SoftwareBlitter
	for _, size := range sizes {
		w, h := size[0], size[1]
		t.Run(fmt.Sprintf("%dx%d", w, h), func(t *testing.T) {
			dst, err := NewFrame(w, h)
			if err != nil {
				t.Fatal(err)
			}
			if err := blitter.Blit(dst, src, NearestClamp()); err != nil {
				t.Fatal(err)
			}
			for py := 0; py < h; py++ {
				for px := 0; px < w; px++ {
					r, g, b, a := dst.At(px, py)
					if r != wantG || g != wantG || b != wantG || a != 255 {
						t.Fatalf("pixel (%d,%d) = (%d,%d,%d,%d), want (%d,%d,%d,255)",
							px, py, r, g, b, a, wantG, wantG, wantG)
					}
				}
			}
		})
	}
}

func TestBlitGreenReplicate(t *testing.T) {
	// Distinct green per source texel. An equal-size nearest blit maps
	// destination row py to source row h-1-py: framebuffer row 0 sits at
	// clip y = +1, which interpolates to v = 1.
	const n = 4
	src, err := NewFrame(n, n)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			src.SetRGBA(x, y, 200, byte(16*y+x), 100, 50)
		}
	}

	dst, err := NewFrame(n, n)
	if err != nil {
		t.Fatal(err)
	}
	if err := (SoftwareBlitter{}).Blit(dst, src, NearestClamp()); err != nil {
		t.Fatal(err)
	}

	for py := 0; py < n; py++ {
		for px := 0; px < n; px++ {
			wantG := byte(16*(n-1-py) + px)
			r, g, b, a := dst.At(px, py)
			if r != wantG || g != wantG || b != wantG {
				t.Errorf("pixel (%d,%d) = (%d,%d,%d), want green %d replicated",
					px, py, r, g, b, wantG)
			}
			if a != 255 {
				t.Errorf("pixel (%d,%d) alpha = %d, want 255", px, py, a)
			}
		}
	}
}

func TestBlitIgnoresOtherChannels(t *testing.T) {
	// Red, blue, and alpha of the source never reach the output.
	src, err := NewFrame(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	src.SetRGBA(0, 0, 10, 20, 30, 40)

	dst, err := NewFrame(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := (SoftwareBlitter{}).Blit(dst, src, NearestClamp()); err != nil {
		t.Fatal(err)
	}
	if r, g, b, a := dst.At(0, 0); r != 20 || g != 20 || b != 20 || a != 255 {
		t.Errorf("pixel = (%d,%d,%d,%d), want (20,20,20,255)", r, g, b, a)
	}
}

func TestBlitIdempotent(t *testing.T) {
	src, err := NewFrame(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.SetRGBA(x, y, byte(x*31), byte(x*7+y*13), byte(y*29), 255)
		}
	}

	first, err := NewFrame(5, 9)
	if err != nil {
		t.Fatal(err)
	}
	second := first.Clone()

	var blitter SoftwareBlitter
	if err := blitter.Blit(first, src, LinearClamp()); err != nil {
		t.Fatal(err)
	}
	if err := blitter.Blit(second, src, LinearClamp()); err != nil {
		t.Fatal(err)
	}
	if !first.Equal(second) {
		t.Error("re-running the pass with unchanged inputs is not bit-identical")
	}
}

func TestBlitNilFrames(t *testing.T) {
	f, err := NewFrame(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	var blitter SoftwareBlitter
	if err := blitter.Blit(nil, f, NearestClamp()); !errors.Is(err, ErrNilFrame) {
		t.Errorf("nil dst error = %v, want ErrNilFrame", err)
	}
	if err := blitter.Blit(f, nil, NearestClamp()); !errors.Is(err, ErrNilFrame) {
		t.Errorf("nil src error = %v, want ErrNilFrame", err)
	}
}
