package pixelate

import (
	"fmt"
	"math"

	"github.com/ironsheep/pixel-mosaic-mcp/internal/pixbuf"
)

// BlockSide returns floor(sqrt(blockArea)), computed exactly.
func BlockSide(blockArea int) int {
	if blockArea < 1 {
		return 0
	}
	s := int(math.Sqrt(float64(blockArea)))
	for s*s > blockArea {
		s--
	}
	for (s+1)*(s+1) <= blockArea {
		s++
	}
	return s
}

// IsPerfectSquare reports whether blockArea tiles as an exact S x S block.
func IsPerfectSquare(blockArea int) bool {
	s := BlockSide(blockArea)
	return s > 0 && s*s == blockArea
}

// Grid returns the block side and the number of whole block columns and rows
// that fit in a width x height buffer.
func Grid(width, height, blockArea int) (side, cols, rows int) {
	side = BlockSide(blockArea)
	if side == 0 {
		return 0, 0, 0
	}
	return side, width / side, height / side
}

// Pixelator averages square blocks using a scratch slice it keeps between
// calls. The scratch grows to the largest block used and is never shrunk.
//
// A Pixelator is not safe for concurrent use; give each goroutine its own.
type Pixelator struct {
	scratch []int
}

// NewPixelator returns a Pixelator with scratch room for blocks of up to
// maxBlockArea pixels.
func NewPixelator(maxBlockArea int) *Pixelator {
	if maxBlockArea < 0 {
		maxBlockArea = 0
	}
	return &Pixelator{scratch: make([]int, 0, maxBlockArea)}
}

// Pixelate returns a same-size copy of buf in which every S x S block of the
// grid holds its block average. Pixels past the grid keep their premultiplied
// value.
//
// An empty buffer yields an unchanged copy. A block area below 1 is rejected
// with pixbuf.ErrInvalidArgument before any work is done.
func (p *Pixelator) Pixelate(buf *pixbuf.Buffer, blockArea int) (*pixbuf.Buffer, error) {
	if blockArea < 1 {
		return nil, fmt.Errorf("block area %d: %w", blockArea, pixbuf.ErrInvalidArgument)
	}
	if buf.Empty() {
		return buf.Clone(), nil
	}

	out := buf.PremultiplyAlpha()
	side, cols, rows := Grid(out.Width, out.Height, blockArea)

	for b := 0; b < cols*rows; b++ {
		idxs := p.gather(out.Width, b, cols, side)
		avg := average(out.Pix, idxs)
		for _, i := range idxs {
			out.Pix[i] = avg
		}
	}

	out.Format = pixbuf.FormatRGBA8
	return out, nil
}

// Reduce returns a new cols x rows buffer holding one averaged pixel per
// block of buf.
//
// An empty buffer yields an unchanged copy. A block area below 1, or one whose
// side exceeds either buffer dimension, is rejected with
// pixbuf.ErrInvalidArgument.
func (p *Pixelator) Reduce(buf *pixbuf.Buffer, blockArea int) (*pixbuf.Buffer, error) {
	if blockArea < 1 {
		return nil, fmt.Errorf("block area %d: %w", blockArea, pixbuf.ErrInvalidArgument)
	}
	if buf.Empty() {
		return buf.Clone(), nil
	}

	side, cols, rows := Grid(buf.Width, buf.Height, blockArea)
	if cols == 0 || rows == 0 {
		return nil, fmt.Errorf("block side %d does not fit %dx%d buffer: %w",
			side, buf.Width, buf.Height, pixbuf.ErrInvalidArgument)
	}

	src := buf.PremultiplyAlpha()
	out := pixbuf.New(cols, rows)
	for b := range out.Pix {
		out.Pix[b] = average(src.Pix, p.gather(src.Width, b, cols, side))
	}

	out.Format = pixbuf.FormatRGBA8
	return out, nil
}

// gather fills the scratch slice with the full-buffer indices of block b.
// Entry y*side+x holds the pixel at intra-block offset (x, y).
func (p *Pixelator) gather(width, b, cols, side int) []int {
	n := side * side
	if cap(p.scratch) < n {
		p.scratch = make([]int, n)
	}
	idxs := p.scratch[:n]

	origin := pixbuf.PointFromIndex(b, cols)
	ox, oy := origin.X*side, origin.Y*side
	for x := 0; x < side; x++ {
		for y := 0; y < side; y++ {
			pixelIdx := pixbuf.IndexFromPoint(pixbuf.Point{X: x + ox, Y: y + oy}, width)
			blockIdx := pixbuf.IndexFromPoint(pixbuf.Point{X: x, Y: y}, side)
			idxs[blockIdx] = pixelIdx
		}
	}
	return idxs
}

// average sums each channel over idxs and divides with truncation.
func average(pix []pixbuf.Color, idxs []int) pixbuf.Color {
	var r, g, b, a uint64
	for _, i := range idxs {
		c := pix[i]
		r += uint64(c.R)
		g += uint64(c.G)
		b += uint64(c.B)
		a += uint64(c.A)
	}
	n := uint64(len(idxs))
	return pixbuf.Color{
		R: uint8(r / n),
		G: uint8(g / n),
		B: uint8(b / n),
		A: uint8(a / n),
	}
}

// Pixelate is the same-size policy using a one-off Pixelator.
func Pixelate(buf *pixbuf.Buffer, blockArea int) (*pixbuf.Buffer, error) {
	return NewPixelator(blockArea).Pixelate(buf, blockArea)
}

// Reduce is the size-reducing policy using a one-off Pixelator.
func Reduce(buf *pixbuf.Buffer, blockArea int) (*pixbuf.Buffer, error) {
	return NewPixelator(blockArea).Reduce(buf, blockArea)
}
