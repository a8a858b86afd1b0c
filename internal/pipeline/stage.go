package pipeline

import (
	"github.com/ironsheep/pixel-mosaic-mcp/internal/pixbuf"
	"github.com/ironsheep/pixel-mosaic-mcp/internal/pixelate"
	"github.com/ironsheep/pixel-mosaic-mcp/internal/quantize"
	"github.com/ironsheep/pixel-mosaic-mcp/internal/resample"
)

// Stage is one buffer transform. It must not modify its input and returns a
// newly allocated buffer.
type Stage func(buf *pixbuf.Buffer) (*pixbuf.Buffer, error)

// Quantize maps every eligible pixel to its nearest palette entry.
func Quantize(pal quantize.Palette, m quantize.Metric) Stage {
	pal = append(quantize.Palette(nil), pal...)
	return func(buf *pixbuf.Buffer) (*pixbuf.Buffer, error) {
		return quantize.Quantize(buf, pal, m)
	}
}

// Pixelate averages blocks of blockArea pixels, keeping the buffer size.
func Pixelate(blockArea int) Stage {
	return func(buf *pixbuf.Buffer) (*pixbuf.Buffer, error) {
		return pixelate.Pixelate(buf, blockArea)
	}
}

// Reduce collapses every block of blockArea pixels to a single pixel.
func Reduce(blockArea int) Stage {
	return func(buf *pixbuf.Buffer) (*pixbuf.Buffer, error) {
		return pixelate.Reduce(buf, blockArea)
	}
}

// Resample scales to exactly width x height by nearest neighbor.
func Resample(width, height int) Stage {
	return func(buf *pixbuf.Buffer) (*pixbuf.Buffer, error) {
		return resample.Nearest(buf, width, height)
	}
}

// Fit scales to fit within width x height, keeping the aspect ratio.
func Fit(width, height int) Stage {
	return func(buf *pixbuf.Buffer) (*pixbuf.Buffer, error) {
		return resample.Fit(buf, width, height)
	}
}
