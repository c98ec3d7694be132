package blit

import (
	"fmt"
	"math"
	"testing"
)

func TestFullscreenTriangleTable(t *testing.T) {
	tests := []struct {
		index    uint32
		position [4]float32
		texCoord [2]float32
	}{
		{0, [4]float32{-1, 3, 0, 1}, [2]float32{0, 2}},
		{1, [4]float32{-1, -1, 0, 1}, [2]float32{0, 0}},
		{2, [4]float32{3, -1, 0, 1}, [2]float32{2, 0}},
	}

	tri := FullscreenTriangle()
	for _, tt := range tests {
		t.Run(fmt.Sprintf("index_%d", tt.index), func(t *testing.T) {
			v := tri[tt.index]
			if v.Position != tt.position {
				t.Errorf("Position = %v, want %v", v.Position, tt.position)
			}
			if v.TexCoord != tt.texCoord {
				t.Errorf("TexCoord = %v, want %v", v.TexCoord, tt.texCoord)
			}
		})
	}
}

func TestVertexAtWraps(t *testing.T) {
	// The vertex stage takes the invocation index modulo 3.
	for index := uint32(0); index < 12; index++ {
		if got, want := VertexAt(index), fullscreenTriangle[index%3]; got != want {
			t.Errorf("VertexAt(%d) = %+v, want %+v", index, got, want)
		}
	}
}

func TestTexCoordAtCorners(t *testing.T) {
	tests := []struct {
		name       string
		x, y         float64
		wantU, wantV float64
	}{
		{"bottom-left", -1, -1, 0, 0},
		{"bottom-right", 1, -1, 1, 0},
		{"top-left", -1, 1, 0, 1},
		{"top-right", 1, 1, 1, 1},
	}

	const eps = 1e-12
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, v := TexCoordAt(tt.x, tt.y)
			if math.Abs(u-tt.wantU) > eps || math.Abs(v-tt.wantV) > eps {
				t.Errorf("TexCoordAt(%v, %v) = (%v, %v), want (%v, %v)",
					tt.x, tt.y, u, v, tt.wantU, tt.wantV)
			}
		})
	}
}

func TestTexCoordAtInRange(t *testing.T) {
	// Every pixel center of several viewport sizes must be covered by the
	// triangle with an interpolated coordinate inside [0,1] x [0,1].
	sizes := [][2]int{{1, 1}, {2, 2}, {7, 3}, {64, 64}, {640, 480}, {1, 173}}

	const eps = 1e-9
	for _, size := range sizes {
		w, h := size[0], size[1]
		t.Run(fmt.Sprintf("%dx%d", w, h), func(t *testing.T) {
			for py := 0; py < h; py++ {
				y := 1 - 2*(float64(py)+0.5)/float64(h)
				for px := 0; px < w; px++ {
					x := 2*(float64(px)+0.5)/float64(w) - 1
					if !Covers(x, y) {
						t.Fatalf("pixel (%d,%d) not covered", px, py)
					}
					u, v := TexCoordAt(x, y)
					if u < -eps || u > 1+eps || v < -eps || v > 1+eps {
						t.Fatalf("pixel (%d,%d): texcoord (%v, %v) outside [0,1]", px, py, u, v)
					}
				}
			}
		})
	}
}

func TestCovers(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"origin", 0, 0, true},
		{"bottom-left vertex", -1, -1, true},
		{"viewport interior", 0.999, 0.999, true},
		{"hypotenuse", 1, 1, true}, // x+y = 2 lies on the long edge
		{"beyond hypotenuse", 1.5, 1.5, false},
		{"left of triangle", -1.01, 0, false},
		{"below triangle", 0, -1.01, false},
		{"oversized top vertex", -1, 3, true},
		{"oversized right vertex", 3, -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Covers(tt.x, tt.y); got != tt.want {
				t.Errorf("Covers(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}
