// Command blitdemo runs the full-screen blit pass on the software path and
// writes the result to a PNG.
//
// It paints a single-pixel source frame with RGBA (0.2, 0.7, 0.9, 1.0),
// renders it at the requested size, verifies that every output pixel carries
// the source green replicated across RGB with opaque alpha, and saves the
// image.
//
// Usage:
//
//	blitdemo [-size N] [-out file.png] [-filter nearest|linear] [-v]
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"math"
	"os"

	"github.com/dungeonfog/blit"
)

func main() {
	size := flag.Int("size", 256, "output size in pixels (square)")
	out := flag.String("out", "blit.png", "output PNG path")
	filter := flag.String("filter", "nearest", "sampling filter: nearest or linear")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if err := run(*size, *out, *filter, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "blitdemo:", err)
		os.Exit(1)
	}
}

func run(size int, out, filter string, verbose bool) error {
	if verbose {
		blit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	var cfg blit.SamplerConfig
	switch filter {
	case "nearest":
		cfg = blit.NearestClamp()
	case "linear":
		cfg = blit.LinearClamp()
	default:
		return fmt.Errorf("unknown filter %q", filter)
	}

	p := blit.NewPresenter(cfg)
	defer p.Close()

	// Single-pixel source, BGRA byte order as a compositor would hand over.
	src := []byte{
		channelByte(0.9), // B
		channelByte(0.7), // G
		channelByte(0.2), // R
		channelByte(1.0), // A
	}
	if err := p.HandlePaint(src, 1, 1, blit.FormatBGRA8, nil); err != nil {
		return err
	}
	if err := p.Resize(size, size); err != nil {
		return err
	}

	frame, err := p.RenderFrame()
	if err != nil {
		return err
	}

	// A uniform source must produce a uniform grey output.
	wantG := channelByte(0.7)
	for py := 0; py < frame.Height(); py++ {
		for px := 0; px < frame.Width(); px++ {
			r, g, b, a := frame.At(px, py)
			if r != wantG || g != wantG || b != wantG || a != 255 {
				return fmt.Errorf("pixel (%d,%d) = (%d,%d,%d,%d), want uniform (%d,%d,%d,255)",
					px, py, r, g, b, a, wantG, wantG, wantG)
			}
		}
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, frame.Image()); err != nil {
		return err
	}

	fmt.Printf("wrote %s (%dx%d, uniform grey %d)\n", out, size, size, wantG)
	return nil
}

func channelByte(v float64) byte {
	return byte(math.Round(v * 255))
}
