package blit

// TriangleVertex is one vertex of the full-screen triangle: a clip-space
// position and the texture coordinate carried to the fragment stage at
// interface location 0.
type TriangleVertex struct {
	// Position is the clip-space position (x, y, z, w).
	Position [4]float32

	// TexCoord is the texture coordinate emitted at this vertex.
	TexCoord [2]float32
}

// fullscreenTriangle is the triangle table mirrored by vs_fullscreen in the
// blit shader. Two vertices lie outside the canonical view volume, which is
// legal because rasterization clips before interpolation; the visible
// region is exactly the viewport with texture coordinates spanning
// [0,1] x [0,1].
var fullscreenTriangle = [3]TriangleVertex{
	{Position: [4]float32{-1, 3, 0, 1}, TexCoord: [2]float32{0, 2}},
	{Position: [4]float32{-1, -1, 0, 1}, TexCoord: [2]float32{0, 0}},
	{Position: [4]float32{3, -1, 0, 1}, TexCoord: [2]float32{2, 0}},
}

// FullscreenTriangle returns the three vertices of the full-screen triangle
// in draw order.
func FullscreenTriangle() [3]TriangleVertex {
	return fullscreenTriangle
}

// VertexAt returns the vertex emitted for a vertex invocation index.
// The index is taken modulo 3, matching the vertex stage.
func VertexAt(index uint32) TriangleVertex {
	return fullscreenTriangle[index%3]
}

// TexCoordAt returns the texture coordinate interpolated at the clip-space
// point (x, y) using barycentric weights over the triangle. Inside the
// viewport this reduces to u = (x+1)/2, v = (y+1)/2.
func TexCoordAt(x, y float64) (u, v float64) {
	w0, w1, w2 := barycentric(x, y)
	t := &fullscreenTriangle
	u = w0*float64(t[0].TexCoord[0]) + w1*float64(t[1].TexCoord[0]) + w2*float64(t[2].TexCoord[0])
	v = w0*float64(t[0].TexCoord[1]) + w1*float64(t[1].TexCoord[1]) + w2*float64(t[2].TexCoord[1])
	return u, v
}

// Covers reports whether the triangle covers the clip-space point (x, y),
// that is, whether all barycentric weights are non-negative.
func Covers(x, y float64) bool {
	w0, w1, w2 := barycentric(x, y)
	return w0 >= 0 && w1 >= 0 && w2 >= 0
}

// barycentric computes the weights of (x, y) with respect to the
// triangle's clip-space positions.
func barycentric(x, y float64) (w0, w1, w2 float64) {
	x0, y0 := float64(fullscreenTriangle[0].Position[0]), float64(fullscreenTriangle[0].Position[1])
	x1, y1 := float64(fullscreenTriangle[1].Position[0]), float64(fullscreenTriangle[1].Position[1])
	x2, y2 := float64(fullscreenTriangle[2].Position[0]), float64(fullscreenTriangle[2].Position[1])

	denom := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	w0 = ((y1-y2)*(x-x2) + (x2-x1)*(y-y2)) / denom
	w1 = ((y2-y0)*(x-x2) + (x0-x2)*(y-y2)) / denom
	w2 = 1 - w0 - w1
	return w0, w1, w2
}
