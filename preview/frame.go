package preview

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
)

// Frame is a rendered preview image.
type Frame struct {
	// Time is the requested time in seconds; Index is the frame it maps to.
	Time  float64
	Index int

	SceneVersion  uint64
	Width, Height int

	// Pix holds RGBA pixels, 4 bytes per pixel, row-major.
	Pix []byte

	// GPU is set when shapes came from the compute mirror rather than the
	// CPU evaluator.
	GPU bool
}

// Bytes returns the memory held by the frame's pixels.
func (f *Frame) Bytes() int {
	return len(f.Pix)
}

// Image returns an image sharing the frame's pixels.
func (f *Frame) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: 4 * f.Width,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// EncodePNG writes the frame as PNG.
func (f *Frame) EncodePNG(w io.Writer) error {
	return png.Encode(w, f.Image())
}

// SavePNG writes the frame to a PNG file.
func (f *Frame) SavePNG(path string) error {
	out, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("preview: create %s: %w", path, err)
	}
	if err := f.EncodePNG(out); err != nil {
		_ = out.Close()
		return fmt.Errorf("preview: encode %s: %w", path, err)
	}
	return out.Close()
}
