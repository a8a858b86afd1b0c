package pixelate

import (
	"fmt"

	"github.com/ironsheep/pixel-mosaic-mcp/internal/pixbuf"
)

// Block describes one filled rectangle for renderers that draw blocks instead
// of raw pixels. Position and size are already multiplied by the emission
// scale.
type Block struct {
	X      int          `json:"x"`
	Y      int          `json:"y"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Color  pixbuf.Color `json:"color"`
}

// Blocks returns one descriptor per grid block of buf, in row-major block
// order. Each block is placed at its grid origin times scale, sized S*scale,
// and colored with the block average.
//
// scale must be at least 1. An empty buffer yields no blocks.
func (p *Pixelator) Blocks(buf *pixbuf.Buffer, blockArea, scale int) ([]Block, error) {
	if scale < 1 {
		return nil, fmt.Errorf("emission scale %d: %w", scale, pixbuf.ErrInvalidArgument)
	}
	if blockArea < 1 {
		return nil, fmt.Errorf("block area %d: %w", blockArea, pixbuf.ErrInvalidArgument)
	}
	if buf.Empty() {
		return nil, nil
	}

	reduced, err := p.Reduce(buf, blockArea)
	if err != nil {
		return nil, err
	}

	size := BlockSide(blockArea) * scale
	blocks := make([]Block, len(reduced.Pix))
	for i, c := range reduced.Pix {
		pt := pixbuf.PointFromIndex(i, reduced.Width)
		blocks[i] = Block{
			X:      pt.X * size,
			Y:      pt.Y * size,
			Width:  size,
			Height: size,
			Color:  c,
		}
	}
	return blocks, nil
}

// Blocks derives block descriptors using a one-off Pixelator.
func Blocks(buf *pixbuf.Buffer, blockArea, scale int) ([]Block, error) {
	return NewPixelator(blockArea).Blocks(buf, blockArea, scale)
}
