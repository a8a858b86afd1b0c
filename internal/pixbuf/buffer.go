package pixbuf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"

	"github.com/cespare/xxhash/v2"
	"github.com/disintegration/imaging"
)

var (
	// ErrInvalidArgument reports a parameter no transform can honor, such as
	// a zero target dimension or an empty palette.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEmptyBuffer reports a buffer with no data, zero width or zero height
	// given to an operation that cannot treat it as a no-op.
	ErrEmptyBuffer = errors.New("empty buffer")
)

// Color is a straight (non-premultiplied) 8-bit RGBA sample.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	r *= uint32(c.A)
	r /= 0xff
	g = uint32(c.G)
	g |= g << 8
	g *= uint32(c.A)
	g /= 0xff
	b = uint32(c.B)
	b |= b << 8
	b *= uint32(c.A)
	b /= 0xff
	a = uint32(c.A)
	a |= a << 8
	return
}

// Hex formats the color as "#RRGGBBAA".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// Premultiply scales r, g and b by a/255, truncating toward zero.
func (c Color) Premultiply() Color {
	a := uint32(c.A)
	return Color{
		R: uint8(uint32(c.R) * a / 255),
		G: uint8(uint32(c.G) * a / 255),
		B: uint8(uint32(c.B) * a / 255),
		A: c.A,
	}
}

// Format tags the pixel format a buffer came from or is meant to be read as.
// Buffers are always stored as 8-bit RGBA; the tag is bookkeeping only.
type Format int

const (
	FormatUnknown Format = iota
	FormatGray8
	FormatGray16
	FormatRGB8
	FormatRGBA8
	FormatRGBA16
	FormatPaletted
)

var formatNames = map[Format]string{
	FormatUnknown:  "unknown",
	FormatGray8:    "gray8",
	FormatGray16:   "gray16",
	FormatRGB8:     "rgb8",
	FormatRGBA8:    "rgba8",
	FormatRGBA16:   "rgba16",
	FormatPaletted: "paletted",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// Buffer is a dense row-major RGBA pixel buffer.
//
// The invariant len(Pix) == Width*Height holds for every buffer produced by this
// module. The zero value is an empty buffer.
type Buffer struct {
	Width  int
	Height int
	Pix    []Color
	Format Format
}

// New allocates a zeroed width x height buffer tagged as 8-bit RGBA.
//
// Non-positive dimensions produce an empty buffer.
func New(width, height int) *Buffer {
	if width <= 0 || height <= 0 {
		return &Buffer{Format: FormatRGBA8}
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]Color, width*height),
		Format: FormatRGBA8,
	}
}

// Empty reports whether the buffer has no usable pixel data: nil buffer, nil
// data, zero width or zero height.
func (b *Buffer) Empty() bool {
	return b == nil || b.Pix == nil || b.Width <= 0 || b.Height <= 0 || len(b.Pix) < b.Width*b.Height
}

// Len returns the number of pixels, Width*Height.
func (b *Buffer) Len() int {
	if b.Empty() {
		return 0
	}
	return b.Width * b.Height
}

// Clone returns an independent copy of b. Cloning nil yields an empty buffer.
func (b *Buffer) Clone() *Buffer {
	if b == nil {
		return &Buffer{}
	}
	out := &Buffer{Width: b.Width, Height: b.Height, Format: b.Format}
	if b.Pix != nil {
		out.Pix = make([]Color, len(b.Pix))
		copy(out.Pix, b.Pix)
	}
	return out
}

// Bounds returns the buffer rectangle anchored at the origin.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// At returns the color at (x, y). Out-of-range coordinates return the zero Color.
func (b *Buffer) At(x, y int) Color {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return Color{}
	}
	return b.Pix[IndexFromPoint(Point{X: x, Y: y}, b.Width)]
}

// Set stores c at (x, y). Out-of-range coordinates are ignored.
func (b *Buffer) Set(x, y int, c Color) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	b.Pix[IndexFromPoint(Point{X: x, Y: y}, b.Width)] = c
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c Color) {
	for i := range b.Pix {
		b.Pix[i] = c
	}
}

// PremultiplyAlpha returns a copy with every pixel premultiplied by its alpha.
// The copy is tagged as 8-bit RGBA.
func (b *Buffer) PremultiplyAlpha() *Buffer {
	out := b.Clone()
	for i, c := range out.Pix {
		out.Pix[i] = c.Premultiply()
	}
	out.Format = FormatRGBA8
	return out
}

// Fingerprint returns the xxHash64 of the buffer dimensions and channel bytes.
// Equal fingerprints mean equal pixel content for all practical purposes; the
// format tag does not participate.
func (b *Buffer) Fingerprint() uint64 {
	h := xxhash.New()
	if b.Empty() {
		return h.Sum64()
	}

	var dims [16]byte
	binary.LittleEndian.PutUint64(dims[:8], uint64(b.Width))
	binary.LittleEndian.PutUint64(dims[8:], uint64(b.Height))
	_, _ = h.Write(dims[:])

	row := make([]byte, b.Width*4)
	for y := 0; y < b.Height; y++ {
		for x, c := range b.Pix[y*b.Width : (y+1)*b.Width] {
			row[x*4+0] = c.R
			row[x*4+1] = c.G
			row[x*4+2] = c.B
			row[x*4+3] = c.A
		}
		_, _ = h.Write(row)
	}
	return h.Sum64()
}

// FromImage converts any decoded image into a buffer of straight 8-bit RGBA
// samples. The format tag records the concrete type of the source image.
func FromImage(img image.Image) *Buffer {
	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	b := New(bounds.Dx(), bounds.Dy())
	b.Format = FormatOf(img)

	for y := 0; y < b.Height; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+b.Width*4]
		for x := 0; x < b.Width; x++ {
			b.Pix[y*b.Width+x] = Color{R: row[x*4], G: row[x*4+1], B: row[x*4+2], A: row[x*4+3]}
		}
	}
	return b
}

// Image converts the buffer into an *image.NRGBA for encoders and presenters.
func (b *Buffer) Image() *image.NRGBA {
	if b.Empty() {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	img := image.NewNRGBA(b.Bounds())
	for i, c := range b.Pix[:b.Width*b.Height] {
		p := PointFromIndex(i, b.Width)
		off := p.Y*img.Stride + p.X*4
		img.Pix[off+0] = c.R
		img.Pix[off+1] = c.G
		img.Pix[off+2] = c.B
		img.Pix[off+3] = c.A
	}
	return img
}

// FormatOf maps the concrete type of a decoded image to a Format tag.
func FormatOf(img image.Image) Format {
	switch img.(type) {
	case *image.Gray:
		return FormatGray8
	case *image.Gray16:
		return FormatGray16
	case *image.YCbCr, *image.CMYK:
		return FormatRGB8
	case *image.RGBA, *image.NRGBA:
		return FormatRGBA8
	case *image.RGBA64, *image.NRGBA64:
		return FormatRGBA16
	case *image.Paletted:
		return FormatPaletted
	}
	return FormatUnknown
}
