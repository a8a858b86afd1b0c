package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/anthonynsimon/bild/imgio"
	"golang.org/x/image/tiff"

	"github.com/ironsheep/pixel-mosaic-mcp/internal/pixbuf"
)

// ImageResult carries a transformed buffer back to an MCP client.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	PixelFormat string `json:"pixel_format"`
	Fingerprint string `json:"fingerprint"`
	SavedTo     string `json:"saved_to,omitempty"`
}

// EncodeResult encodes buf as base64 PNG.
func EncodeResult(buf *pixbuf.Buffer) (*ImageResult, error) {
	if buf.Empty() {
		return nil, fmt.Errorf("failed to encode image: %w", pixbuf.ErrEmptyBuffer)
	}

	var out bytes.Buffer
	if err := imgio.PNGEncoder()(&out, buf.Image()); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &ImageResult{
		Width:       buf.Width,
		Height:      buf.Height,
		ImageBase64: base64.StdEncoding.EncodeToString(out.Bytes()),
		MimeType:    "image/png",
		PixelFormat: buf.Format.String(),
		Fingerprint: FingerprintHex(buf),
	}, nil
}

// FingerprintHex formats the buffer fingerprint as 16 hex digits.
func FingerprintHex(buf *pixbuf.Buffer) string {
	return fmt.Sprintf("%016x", buf.Fingerprint())
}

// EncoderFor picks an encoder from the file extension of path.
func EncoderFor(path string) (imgio.Encoder, error) {
	switch FormatFromExt(path) {
	case "png":
		return imgio.PNGEncoder(), nil
	case "jpeg":
		return imgio.JPEGEncoder(95), nil
	case "bmp":
		return imgio.BMPEncoder(), nil
	case "tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	}
	return nil, fmt.Errorf("unsupported output format %q: %w", filepath.Ext(path), pixbuf.ErrInvalidArgument)
}

// Save writes buf to path, creating parent directories as needed. The format
// follows the file extension.
func Save(path string, buf *pixbuf.Buffer) error {
	if buf.Empty() {
		return fmt.Errorf("failed to save %q: %w", path, pixbuf.ErrEmptyBuffer)
	}
	enc, err := EncoderFor(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := imgio.Save(path, buf.Image(), enc); err != nil {
		return fmt.Errorf("failed to save %q: %w", path, err)
	}
	return nil
}

// ContentAddressedName builds "<base>.<w>x<h>.<hash8><ext>" for an output of
// buf derived from srcPath.
func ContentAddressedName(srcPath string, buf *pixbuf.Buffer, ext string) string {
	base := filepath.Base(srcPath)
	base = base[:len(base)-len(filepath.Ext(base))]
	return base + "." + strconv.Itoa(buf.Width) + "x" + strconv.Itoa(buf.Height) +
		"." + FingerprintHex(buf)[:8] + ext
}
