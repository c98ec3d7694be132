package dirty

import (
	"image"
	"sync"
	"testing"
)

func TestNewRegion(t *testing.T) {
	tests := []struct {
		name           string
		width, height  int
		tilesX, tilesY int
		wantNil        bool
	}{
		{"single tile", 64, 64, 1, 1, false},
		{"partial tiles", 65, 1, 2, 1, false},
		{"hd frame", 1920, 1080, 30, 17, false},
		{"zero width", 0, 100, 0, 0, true},
		{"negative", -1, 100, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegion(tt.width, tt.height)
			if tt.wantNil {
				if r != nil {
					t.Fatal("expected nil region")
				}
				return
			}
			if r == nil {
				t.Fatal("unexpected nil region")
			}
			if r.TilesX() != tt.tilesX || r.TilesY() != tt.tilesY {
				t.Errorf("grid = %dx%d, want %dx%d", r.TilesX(), r.TilesY(), tt.tilesX, tt.tilesY)
			}
			if !r.IsEmpty() {
				t.Error("new region is not clean")
			}
		})
	}
}

func TestMarkAndIsDirty(t *testing.T) {
	r := NewRegion(256, 256) // 4x4 tiles

	r.Mark(1, 2)
	if !r.IsDirty(1, 2) {
		t.Error("marked tile is not dirty")
	}
	if r.IsDirty(2, 1) {
		t.Error("unmarked tile is dirty")
	}
	if got := r.Count(); got != 1 {
		t.Errorf("Count = %d, want 1", got)
	}

	// Out-of-bounds marks are ignored.
	r.Mark(-1, 0)
	r.Mark(4, 0)
	if got := r.Count(); got != 1 {
		t.Errorf("Count after out-of-bounds marks = %d, want 1", got)
	}
}

func TestMarkRect(t *testing.T) {
	r := NewRegion(256, 256) // 4x4 tiles

	// A rect spanning tiles (0,0)..(1,1).
	r.MarkRect(image.Rect(10, 10, 100, 100))
	if got := r.Count(); got != 4 {
		t.Errorf("Count = %d, want 4", got)
	}
	for _, tile := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		if !r.IsDirty(tile[0], tile[1]) {
			t.Errorf("tile (%d,%d) not dirty", tile[0], tile[1])
		}
	}

	// Rects outside the area are clipped away entirely.
	r.Clear()
	r.MarkRect(image.Rect(300, 300, 400, 400))
	if !r.IsEmpty() {
		t.Error("out-of-area rect marked tiles")
	}
}

func TestMarkAllClear(t *testing.T) {
	r := NewRegion(1920, 1080)
	r.MarkAll()
	if got, want := r.Count(), r.TilesX()*r.TilesY(); got != want {
		t.Errorf("Count after MarkAll = %d, want %d", got, want)
	}
	r.Clear()
	if !r.IsEmpty() {
		t.Error("region not empty after Clear")
	}
}

func TestBounds(t *testing.T) {
	r := NewRegion(300, 200)

	if got := r.Bounds(); !got.Empty() {
		t.Errorf("Bounds of clean region = %v, want empty", got)
	}

	r.MarkRect(image.Rect(70, 10, 80, 20))   // tile (1,0)
	r.MarkRect(image.Rect(200, 150, 210, 160)) // tile (3,2)

	want := image.Rect(64, 0, 256, 192) // tiles (1,0) through (3,2)
	if got := r.Bounds(); got != want {
		t.Errorf("Bounds = %v, want %v", got, want)
	}
}

func TestGetAndClear(t *testing.T) {
	r := NewRegion(128, 128) // 2x2 tiles

	r.Mark(0, 0)
	r.Mark(1, 1)

	rects := r.GetAndClear()
	if len(rects) != 2 {
		t.Fatalf("GetAndClear returned %d rects, want 2", len(rects))
	}
	if rects[0] != image.Rect(0, 0, 64, 64) {
		t.Errorf("rects[0] = %v", rects[0])
	}
	if rects[1] != image.Rect(64, 64, 128, 128) {
		t.Errorf("rects[1] = %v", rects[1])
	}
	if !r.IsEmpty() {
		t.Error("region not clean after GetAndClear")
	}
}

func TestEdgeTileClipping(t *testing.T) {
	// 100x70 leaves partial tiles at the right and bottom edges.
	r := NewRegion(100, 70)
	r.MarkAll()

	for _, rect := range r.GetAndClear() {
		if rect.Max.X > 100 || rect.Max.Y > 70 {
			t.Errorf("rect %v exceeds the tracked area", rect)
		}
	}
}

func TestConcurrentMark(t *testing.T) {
	r := NewRegion(4096, 4096) // 64x64 tiles

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for ty := 0; ty < 64; ty++ {
				r.Mark(g*8+ty%8, ty)
			}
		}(g)
	}
	wg.Wait()

	if r.IsEmpty() {
		t.Error("no tiles dirty after concurrent marks")
	}
	if got := r.Count(); got == 0 {
		t.Errorf("Count = %d after concurrent marks", got)
	}
}
