package blit

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// Frame errors.
var (
	// ErrInvalidFrameSize is returned for zero or negative dimensions.
	ErrInvalidFrameSize = errors.New("blit: invalid frame size")

	// ErrFrameDataShort is returned when a pixel buffer is smaller than
	// its declared dimensions require.
	ErrFrameDataShort = errors.New("blit: frame data too short")

	// ErrNilFrame is returned when operating on a nil frame.
	ErrNilFrame = errors.New("blit: frame is nil")
)

// frameBytesPerPixel is the byte size of one frame pixel.
const frameBytesPerPixel = 4

// PixelFormat identifies the channel order of raw frame bytes.
type PixelFormat uint8

const (
	// FormatRGBA8 is 8-bit straight RGBA, 4 bytes per pixel.
	FormatRGBA8 PixelFormat = iota

	// FormatBGRA8 is 8-bit straight BGRA, the native order of most
	// off-screen compositors and window surfaces.
	FormatBGRA8
)

// String returns a string representation of the pixel format.
func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatBGRA8:
		return "BGRA8"
	default:
		return "Unknown"
	}
}

// Frame is a CPU pixel buffer holding one image as 8-bit straight RGBA,
// row-major, 4 bytes per pixel. Row 0 corresponds to texture coordinate
// v = 0.
type Frame struct {
	width  int
	height int
	pix    []byte
}

// NewFrame creates a zeroed frame of the given size.
func NewFrame(width, height int) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidFrameSize, width, height)
	}
	return &Frame{
		width:  width,
		height: height,
		pix:    make([]byte, width*height*frameBytesPerPixel),
	}, nil
}

// NewFrameFromBytes creates a frame by copying a raw pixel buffer.
// BGRA input is converted to the frame's RGBA layout on ingest.
func NewFrameFromBytes(data []byte, width, height int, format PixelFormat) (*Frame, error) {
	f, err := NewFrame(width, height)
	if err != nil {
		return nil, err
	}
	need := width * height * frameBytesPerPixel
	if len(data) < need {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d %s frame",
			ErrFrameDataShort, len(data), width, height, format)
	}

	switch format {
	case FormatBGRA8:
		for i := 0; i < need; i += frameBytesPerPixel {
			f.pix[i+0] = data[i+2]
			f.pix[i+1] = data[i+1]
			f.pix[i+2] = data[i+0]
			f.pix[i+3] = data[i+3]
		}
	default:
		copy(f.pix, data[:need])
	}
	return f, nil
}

// FrameFromImage converts an image to a frame of the given size, scaling
// when the sizes differ. The filter selects the scaling kernel.
func FrameFromImage(img image.Image, width, height int, filter FilterMode) (*Frame, error) {
	if img == nil {
		return nil, ErrNilFrame
	}
	f, err := NewFrame(width, height)
	if err != nil {
		return nil, err
	}

	dst := &image.RGBA{
		Pix:    f.pix,
		Stride: width * frameBytesPerPixel,
		Rect:   image.Rect(0, 0, width, height),
	}

	var scaler xdraw.Scaler = xdraw.NearestNeighbor
	if filter == FilterLinear {
		scaler = xdraw.BiLinear
	}
	scaler.Scale(dst, dst.Rect, img, img.Bounds(), xdraw.Src, nil)
	return f, nil
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int { return f.width }

// Height returns the frame height in pixels.
func (f *Frame) Height() int { return f.height }

// Pix returns the underlying RGBA pixel data. The slice is shared, not a
// copy; callers must not resize it.
func (f *Frame) Pix() []byte { return f.pix }

// At returns the RGBA channels of the pixel at (x, y).
// Out-of-bounds coordinates return zero values.
func (f *Frame) At(x, y int) (r, g, b, a byte) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return 0, 0, 0, 0
	}
	off := (y*f.width + x) * frameBytesPerPixel
	return f.pix[off], f.pix[off+1], f.pix[off+2], f.pix[off+3]
}

// SetRGBA sets the pixel at (x, y). Out-of-bounds coordinates are ignored.
func (f *Frame) SetRGBA(x, y int, r, g, b, a byte) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	off := (y*f.width + x) * frameBytesPerPixel
	f.pix[off] = r
	f.pix[off+1] = g
	f.pix[off+2] = b
	f.pix[off+3] = a
}

// pixRect copies the pixels inside r, which must lie within the frame,
// into a tightly packed RGBA buffer of r.Dx()*4 bytes per row.
func (f *Frame) pixRect(r image.Rectangle) []byte {
	rowBytes := r.Dx() * frameBytesPerPixel
	out := make([]byte, rowBytes*r.Dy())
	for row := 0; row < r.Dy(); row++ {
		srcOff := ((r.Min.Y+row)*f.width + r.Min.X) * frameBytesPerPixel
		copy(out[row*rowBytes:(row+1)*rowBytes], f.pix[srcOff:srcOff+rowBytes])
	}
	return out
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	pix := make([]byte, len(f.pix))
	copy(pix, f.pix)
	return &Frame{width: f.width, height: f.height, pix: pix}
}

// Equal reports whether two frames have identical dimensions and pixels.
func (f *Frame) Equal(other *Frame) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.width == other.width &&
		f.height == other.height &&
		bytes.Equal(f.pix, other.pix)
}

// Image returns the frame as an image.RGBA sharing the frame's pixel data.
func (f *Frame) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.pix,
		Stride: f.width * frameBytesPerPixel,
		Rect:   image.Rect(0, 0, f.width, f.height),
	}
}
