package quantize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/pixel-mosaic-mcp/internal/pixbuf"
)

// Palette is an ordered set of target colors. Order matters: the earliest
// entry wins distance ties.
type Palette []pixbuf.Color

// DefaultPalette is the five-step green ramp the pipeline uses when no palette
// is supplied.
var DefaultPalette = Palette{
	{R: 121, G: 235, B: 0, A: 255},
	{R: 70, G: 180, B: 33, A: 255},
	{R: 30, G: 127, B: 35, A: 255},
	{R: 4, G: 76, B: 26, A: 255},
	{R: 0, G: 31, B: 8, A: 255},
}

// Validate rejects palettes no quantizer can use.
func (p Palette) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("palette has no colors: %w", pixbuf.ErrInvalidArgument)
	}
	return nil
}

// Contains reports whether c is exactly one of the palette entries.
func (p Palette) Contains(c pixbuf.Color) bool {
	for _, e := range p {
		if e == c {
			return true
		}
	}
	return false
}

// Hex returns the palette entries as "#RRGGBBAA" strings.
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Hex()
	}
	return out
}

// ParsePalette builds a palette from hex strings.
//
// Accepted forms are "#RRGGBB" (opaque) and "#RRGGBBAA"; the leading '#' is
// optional. An empty list is rejected.
func ParsePalette(hexes []string) (Palette, error) {
	if len(hexes) == 0 {
		return nil, fmt.Errorf("palette has no colors: %w", pixbuf.ErrInvalidArgument)
	}

	pal := make(Palette, 0, len(hexes))
	for i, h := range hexes {
		c, err := parseHexColor(h)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d %q: %w", i, h, err)
		}
		pal = append(pal, c)
	}
	return pal, nil
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (pixbuf.Color, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")

	var alpha uint8 = 255
	switch len(hex) {
	case 6:
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return pixbuf.Color{}, fmt.Errorf("invalid alpha: %w", pixbuf.ErrInvalidArgument)
		}
		alpha = uint8(a)
		hex = hex[:6]
	default:
		return pixbuf.Color{}, fmt.Errorf("invalid hex color length: %w", pixbuf.ErrInvalidArgument)
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return pixbuf.Color{}, fmt.Errorf("%v: %w", err, pixbuf.ErrInvalidArgument)
	}
	r, g, b := c.RGB255()
	return pixbuf.Color{R: r, G: g, B: b, A: alpha}, nil
}
