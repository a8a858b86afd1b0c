// Package resample produces resized copies of pixel buffers by nearest-neighbor
// sampling. Every output pixel is an exact copy of one input pixel; there is no
// interpolation.
package resample

import (
	"fmt"
	"math"

	"github.com/ironsheep/pixel-mosaic-mcp/internal/pixbuf"
)

// Nearest returns a newWidth x newHeight copy of buf.
//
// Source coordinates come from 16.16 fixed-point ratios:
//
//	xRatio = (srcWidth << 16) / newWidth + 1
//	yRatio = (srcHeight << 16) / newHeight + 1
//	x = (j * xRatio) >> 16,  y = (i * yRatio) >> 16
//
// The +1 keeps truncation from drifting short of the last source column. For
// very large upscales the product can land one past the edge; those samples
// are clamped to the last row or column.
//
// A target dimension below 1 returns pixbuf.ErrInvalidArgument and an empty
// source returns pixbuf.ErrEmptyBuffer. buf is never modified.
func Nearest(buf *pixbuf.Buffer, newWidth, newHeight int) (*pixbuf.Buffer, error) {
	if newWidth < 1 || newHeight < 1 {
		return nil, fmt.Errorf("resample to %dx%d: %w", newWidth, newHeight, pixbuf.ErrInvalidArgument)
	}
	if buf.Empty() {
		return nil, fmt.Errorf("resample to %dx%d: %w", newWidth, newHeight, pixbuf.ErrEmptyBuffer)
	}

	xRatio := (buf.Width<<16)/newWidth + 1
	yRatio := (buf.Height<<16)/newHeight + 1

	out := pixbuf.New(newWidth, newHeight)
	out.Format = buf.Format
	for i := 0; i < newHeight; i++ {
		y := min((i*yRatio)>>16, buf.Height-1)
		for j := 0; j < newWidth; j++ {
			x := min((j*xRatio)>>16, buf.Width-1)
			out.Pix[i*newWidth+j] = buf.Pix[y*buf.Width+x]
		}
	}
	return out, nil
}

// FitSize returns the largest dimensions no bigger than maxWidth x maxHeight
// that keep the aspect ratio of a width x height source. Sources that already
// fit keep their size.
func FitSize(width, height, maxWidth, maxHeight int) (int, int) {
	if maxWidth < 1 {
		maxWidth = 1
	}
	if maxHeight < 1 {
		maxHeight = 1
	}
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}

	ratio := math.Min(float64(maxWidth)/float64(width), float64(maxHeight)/float64(height))
	newW := int(float64(width)*ratio + 0.5)
	newH := int(float64(height)*ratio + 0.5)
	return max(newW, 1), max(newH, 1)
}

// Fit resamples buf to fit within maxWidth x maxHeight, preserving its aspect
// ratio. A source that already fits comes back as an identical copy.
func Fit(buf *pixbuf.Buffer, maxWidth, maxHeight int) (*pixbuf.Buffer, error) {
	if maxWidth < 1 || maxHeight < 1 {
		return nil, fmt.Errorf("fit to %dx%d: %w", maxWidth, maxHeight, pixbuf.ErrInvalidArgument)
	}
	if buf.Empty() {
		return nil, fmt.Errorf("fit to %dx%d: %w", maxWidth, maxHeight, pixbuf.ErrEmptyBuffer)
	}
	w, h := FitSize(buf.Width, buf.Height, maxWidth, maxHeight)
	return Nearest(buf, w, h)
}
