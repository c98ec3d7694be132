// Package dirty tracks which parts of a frame changed between paints using
// a lock-free atomic bitmap over a fixed tile grid.
package dirty

import (
	"image"
	"math/bits"
	"sync/atomic"
)

// TileSize is the edge length of one tracking tile in pixels.
const TileSize = 64

// Region tracks dirty tiles of a pixel area. One bit per tile, packed into
// uint64 words. All methods are safe for concurrent use without external
// synchronization.
type Region struct {
	words []atomic.Uint64

	width  int // pixel width
	height int // pixel height
	tilesX int
	tilesY int
}

// NewRegion creates a tracker for a width x height pixel area.
// All tiles start clean. Returns nil for non-positive dimensions.
func NewRegion(width, height int) *Region {
	if width <= 0 || height <= 0 {
		return nil
	}

	tilesX := (width + TileSize - 1) / TileSize
	tilesY := (height + TileSize - 1) / TileSize
	numWords := (tilesX*tilesY + 63) / 64

	return &Region{
		words:  make([]atomic.Uint64, numWords),
		width:  width,
		height: height,
		tilesX: tilesX,
		tilesY: tilesY,
	}
}

// Mark marks a single tile dirty. Lock-free O(1) atomic OR.
// Out-of-bounds coordinates are ignored.
func (r *Region) Mark(tx, ty int) {
	if tx < 0 || tx >= r.tilesX || ty < 0 || ty >= r.tilesY {
		return
	}
	idx := ty*r.tilesX + tx
	r.words[idx/64].Or(1 << (idx & 63))
}

// MarkRect marks every tile intersecting the pixel rectangle dirty.
// Rectangles outside the tracked area are clipped; empty ones are ignored.
func (r *Region) MarkRect(rect image.Rectangle) {
	rect = rect.Intersect(image.Rect(0, 0, r.width, r.height))
	if rect.Empty() {
		return
	}

	tx1 := rect.Min.X / TileSize
	ty1 := rect.Min.Y / TileSize
	tx2 := (rect.Max.X - 1) / TileSize
	ty2 := (rect.Max.Y - 1) / TileSize

	for ty := ty1; ty <= ty2; ty++ {
		for tx := tx1; tx <= tx2; tx++ {
			r.Mark(tx, ty)
		}
	}
}

// MarkAll marks every tile dirty.
func (r *Region) MarkAll() {
	total := r.tilesX * r.tilesY
	fullWords := total / 64
	for i := 0; i < fullWords; i++ {
		r.words[i].Store(^uint64(0))
	}
	if rem := total % 64; rem > 0 {
		r.words[fullWords].Store((uint64(1) << rem) - 1)
	}
}

// Clear marks every tile clean.
func (r *Region) Clear() {
	for i := range r.words {
		r.words[i].Store(0)
	}
}

// IsDirty reports whether the tile at (tx, ty) is dirty.
// Out-of-bounds coordinates report false.
func (r *Region) IsDirty(tx, ty int) bool {
	if tx < 0 || tx >= r.tilesX || ty < 0 || ty >= r.tilesY {
		return false
	}
	idx := ty*r.tilesX + tx
	return r.words[idx/64].Load()&(1<<(idx&63)) != 0
}

// IsEmpty reports whether no tile is dirty.
func (r *Region) IsEmpty() bool {
	for i := range r.words {
		if r.words[i].Load() != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of dirty tiles.
func (r *Region) Count() int {
	count := 0
	total := r.tilesX * r.tilesY
	fullWords := total / 64
	for i := 0; i < fullWords; i++ {
		count += bits.OnesCount64(r.words[i].Load())
	}
	if fullWords < len(r.words) {
		mask := (uint64(1) << (total % 64)) - 1
		count += bits.OnesCount64(r.words[fullWords].Load() & mask)
	}
	return count
}

// Bounds returns the union pixel rectangle of all dirty tiles, clipped to
// the tracked area. Returns the zero rectangle when nothing is dirty.
// Useful for coalescing scattered paint rects into a single upload.
func (r *Region) Bounds() image.Rectangle {
	minTX, minTY := r.tilesX, r.tilesY
	maxTX, maxTY := -1, -1

	r.forEach(func(tx, ty int) {
		if tx < minTX {
			minTX = tx
		}
		if ty < minTY {
			minTY = ty
		}
		if tx > maxTX {
			maxTX = tx
		}
		if ty > maxTY {
			maxTY = ty
		}
	})

	if maxTX < 0 {
		return image.Rectangle{}
	}
	rect := image.Rect(
		minTX*TileSize, minTY*TileSize,
		(maxTX+1)*TileSize, (maxTY+1)*TileSize,
	)
	return rect.Intersect(image.Rect(0, 0, r.width, r.height))
}

// GetAndClear atomically collects the pixel rectangle of every dirty tile
// and clears the bitmap. Tiles at the right and bottom edges are clipped to
// the tracked area.
func (r *Region) GetAndClear() []image.Rectangle {
	var rects []image.Rectangle
	total := r.tilesX * r.tilesY

	for wordIdx := range r.words {
		word := r.words[wordIdx].Swap(0)
		for word != 0 {
			bitIdx := bits.TrailingZeros64(word)
			word &^= 1 << bitIdx

			tileIdx := wordIdx*64 + bitIdx
			if tileIdx >= total {
				break
			}
			tx := tileIdx % r.tilesX
			ty := tileIdx / r.tilesX

			rect := image.Rect(
				tx*TileSize, ty*TileSize,
				(tx+1)*TileSize, (ty+1)*TileSize,
			).Intersect(image.Rect(0, 0, r.width, r.height))
			rects = append(rects, rect)
		}
	}
	return rects
}

// forEach visits every dirty tile in row-major order without clearing.
func (r *Region) forEach(fn func(tx, ty int)) {
	total := r.tilesX * r.tilesY

	for wordIdx := range r.words {
		word := r.words[wordIdx].Load()
		for word != 0 {
			bitIdx := bits.TrailingZeros64(word)
			word &^= 1 << bitIdx

			tileIdx := wordIdx*64 + bitIdx
			if tileIdx >= total {
				break
			}
			fn(tileIdx%r.tilesX, tileIdx/r.tilesX)
		}
	}
}

// TilesX returns the number of tiles horizontally.
func (r *Region) TilesX() int { return r.tilesX }

// TilesY returns the number of tiles vertically.
func (r *Region) TilesY() int { return r.tilesY }
