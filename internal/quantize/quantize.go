package quantize

import (
	"fmt"
	"strings"

	"github.com/ironsheep/pixel-mosaic-mcp/internal/pixbuf"
)

// Metric selects the distance used to find the nearest palette entry.
type Metric int

const (
	// Euclidean is the 4-D Euclidean distance over r, g, b, a.
	Euclidean Metric = iota
	// Manhattan is the 4-D L1 distance over r, g, b, a.
	Manhattan
)

func (m Metric) String() string {
	switch m {
	case Euclidean:
		return "euclidean"
	case Manhattan:
		return "manhattan"
	}
	return fmt.Sprintf("metric(%d)", int(m))
}

// ParseMetric maps "euclidean" or "manhattan" (case-insensitive) to a Metric.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "euclidean", "l2":
		return Euclidean, nil
	case "manhattan", "l1":
		return Manhattan, nil
	}
	return 0, fmt.Errorf("unknown metric %q: %w", s, pixbuf.ErrInvalidArgument)
}

// Distance returns the metric distance between two colors, alpha included.
// Euclidean distances are returned squared; ordering is the same and the value
// stays exact.
func Distance(a, b pixbuf.Color, m Metric) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	da := int(a.A) - int(b.A)
	if m == Manhattan {
		return abs(dr) + abs(dg) + abs(db) + abs(da)
	}
	return dr*dr + dg*dg + db*db + da*da
}

// Nearest returns the index of the palette entry closest to c.
//
// Entry 0 seeds the search; later entries win only on a strictly smaller
// distance. pal must not be empty.
func Nearest(c pixbuf.Color, pal Palette, m Metric) int {
	best := 0
	bestDist := Distance(c, pal[0], m)
	for i := 1; i < len(pal); i++ {
		if d := Distance(c, pal[i], m); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Quantize dispatches to the quantizer for metric m.
func Quantize(buf *pixbuf.Buffer, pal Palette, m Metric) (*pixbuf.Buffer, error) {
	switch m {
	case Euclidean:
		return QuantizeEuclidean(buf, pal)
	case Manhattan:
		return QuantizeManhattan(buf, pal)
	}
	return nil, fmt.Errorf("quantize with %v: %w", m, pixbuf.ErrInvalidArgument)
}

// QuantizeEuclidean maps every pixel whose four channels are all non-zero to
// the nearest palette entry by Euclidean distance.
//
// Pixels with any zero channel are background and copied unchanged. An empty
// buffer yields an unchanged copy. The result keeps buf's format tag.
func QuantizeEuclidean(buf *pixbuf.Buffer, pal Palette) (*pixbuf.Buffer, error) {
	if err := pal.Validate(); err != nil {
		return nil, err
	}
	if buf.Empty() {
		return buf.Clone(), nil
	}

	format := buf.Format
	out := buf.Clone()
	for i, c := range out.Pix {
		if c.R == 0 || c.G == 0 || c.B == 0 || c.A == 0 {
			continue
		}
		out.Pix[i] = pal[Nearest(c, pal, Euclidean)]
	}
	out.Format = format
	return out, nil
}

// QuantizeManhattan premultiplies buf by alpha and maps every pixel with
// non-zero alpha to the nearest palette entry by Manhattan distance.
//
// Transparent pixels keep their premultiplied value. An empty buffer yields an
// unchanged copy. The result is tagged as 8-bit RGBA.
func QuantizeManhattan(buf *pixbuf.Buffer, pal Palette) (*pixbuf.Buffer, error) {
	if err := pal.Validate(); err != nil {
		return nil, err
	}
	if buf.Empty() {
		return buf.Clone(), nil
	}

	out := buf.PremultiplyAlpha()
	for i, c := range out.Pix {
		if c.A == 0 {
			continue
		}
		out.Pix[i] = pal[Nearest(c, pal, Manhattan)]
	}
	out.Format = pixbuf.FormatRGBA8
	return out, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
