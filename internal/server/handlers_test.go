package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/pixel-mosaic-mcp/internal/imaging"
	"github.com/ironsheep/pixel-mosaic-mcp/internal/pixbuf"
	"github.com/ironsheep/pixel-mosaic-mcp/internal/quantize"
)

// createTestImageFile creates a test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	tmpFile, err := os.CreateTemp("", "handler-test-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to encode image: %v", err)
	}

	return tmpFile.Name()
}

// createPatternImageFile writes an image whose left half is red and right half
// is blue, and returns its path.
func createPatternImageFile(t *testing.T, width, height int) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.Set(x, y, color.NRGBA{200, 10, 10, 255})
			} else {
				img.Set(x, y, color.NRGBA{10, 10, 200, 255})
			}
		}
	}

	path := filepath.Join(t.TempDir(), "pattern.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func newQuietServer() *Server {
	return NewWithConfig(Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
}

// callTool issues a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeToolResult unmarshals the text content of a successful response into v.
func decodeToolResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content: got %v", result["content"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("failed to decode tool result: %v", err)
	}
}

// decodeImage turns an ImageResult payload back into a buffer.
func decodeImage(t *testing.T, r *imaging.ImageResult) *pixbuf.Buffer {
	t.Helper()

	data, err := base64.StdEncoding.DecodeString(r.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	return pixbuf.FromImage(img)
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := newQuietServer()
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})
	defer os.Remove(imgPath)

	var info imaging.ImageInfo
	decodeToolResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": imgPath}), &info)

	if info.Width != 100 || info.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
}

func TestHandleToolsCall_ImageDimensions(t *testing.T) {
	s := newQuietServer()
	imgPath := createTestImageFile(t, 200, 150, color.RGBA{0, 255, 0, 255})
	defer os.Remove(imgPath)

	var dims imaging.DimensionsResult
	decodeToolResult(t, callTool(t, s, "image_dimensions", map[string]interface{}{"path": imgPath}), &dims)

	if dims.Width != 200 || dims.Height != 150 {
		t.Errorf("got %dx%d, want 200x150", dims.Width, dims.Height)
	}
}

func TestHandleToolsCall_Errors(t *testing.T) {
	s := newQuietServer()
	imgPath := createTestImageFile(t, 10, 10, color.RGBA{1, 2, 3, 255})
	defer os.Remove(imgPath)

	tests := []struct {
		name string
		tool string
		args map[string]interface{}
	}{
		{"non-existent file", "image_load", map[string]interface{}{"path": "/nonexistent/image.png"}},
		{"unknown tool", "nonexistent_tool", map[string]interface{}{}},
		{"missing path", "image_quantize", map[string]interface{}{}},
		{"bad metric", "image_quantize", map[string]interface{}{"path": imgPath, "metric": "cosine"}},
		{"bad palette", "image_quantize", map[string]interface{}{"path": imgPath, "palette": []string{"#12"}}},
		{"zero block area", "image_pixelate", map[string]interface{}{"path": imgPath}},
		{"strict non-square", "image_pixelate", map[string]interface{}{"path": imgPath, "block_area": 10, "strict": true}},
		{"reduce block too large", "image_pixelate", map[string]interface{}{"path": imgPath, "block_area": 400, "reduce": true}},
		{"zero resample size", "image_resample", map[string]interface{}{"path": imgPath, "width": 0, "height": 5}},
		{"blocks bad scale", "image_blocks", map[string]interface{}{"path": imgPath, "block_area": 4, "scale": -1}},
		{"blocks strict", "image_blocks", map[string]interface{}{"path": imgPath, "block_area": 5, "strict": true}},
		{"process unknown op", "image_process", map[string]interface{}{"path": imgPath, "steps": []map[string]interface{}{{"op": "blur"}}}},
		{"bad output extension", "image_quantize", map[string]interface{}{"path": imgPath, "output_path": filepath.Join(t.TempDir(), "x.gif")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, tt.tool, tt.args)
			if resp.Error == nil {
				t.Fatal("expected an error response")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
			}
		})
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newQuietServer()

	resp := s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`"not an object"`),
	})

	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("got %+v, want -32602 error", resp.Error)
	}
}

func TestHandleToolsCall_Quantize(t *testing.T) {
	s := newQuietServer()
	src := color.RGBA{200, 100, 50, 255}
	imgPath := createTestImageFile(t, 20, 10, src)
	defer os.Remove(imgPath)

	px := pixbuf.Color{R: 200, G: 100, B: 50, A: 255}
	for _, metric := range []quantize.Metric{quantize.Euclidean, quantize.Manhattan} {
		t.Run(metric.String(), func(t *testing.T) {
			var result imaging.ImageResult
			decodeToolResult(t, callTool(t, s, "image_quantize", map[string]interface{}{
				"path":   imgPath,
				"metric": metric.String(),
			}), &result)

			if result.Width != 20 || result.Height != 10 {
				t.Errorf("dimensions: got %dx%d, want 20x10", result.Width, result.Height)
			}
			want := quantize.DefaultPalette[quantize.Nearest(px, quantize.DefaultPalette, metric)]
			if got := decodeImage(t, &result).At(5, 5); got != want {
				t.Errorf("pixel: got %v, want %v", got, want)
			}
		})
	}
}

func TestHandleToolsCall_QuantizeCustomPalette(t *testing.T) {
	s := newQuietServer()
	imgPath := createTestImageFile(t, 4, 4, color.RGBA{250, 240, 230, 255})
	defer os.Remove(imgPath)

	var result imaging.ImageResult
	decodeToolResult(t, callTool(t, s, "image_quantize", map[string]interface{}{
		"path":    imgPath,
		"palette": []string{"#000000", "#FFFFFF"},
	}), &result)

	if got := decodeImage(t, &result).At(0, 0); got != (pixbuf.Color{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("pixel: got %v, want white", got)
	}
}

func TestHandleToolsCall_Pixelate(t *testing.T) {
	s := newQuietServer()
	imgPath := createPatternImageFile(t, 8, 4)

	var same imaging.ImageResult
	decodeToolResult(t, callTool(t, s, "image_pixelate", map[string]interface{}{
		"path":       imgPath,
		"block_area": 16,
	}), &same)

	if same.Width != 8 || same.Height != 4 {
		t.Errorf("same-size: got %dx%d, want 8x4", same.Width, same.Height)
	}
	buf := decodeImage(t, &same)
	if buf.At(0, 0) != (pixbuf.Color{R: 200, G: 10, B: 10, A: 255}) {
		t.Errorf("left block: got %v", buf.At(0, 0))
	}
	if buf.At(7, 3) != (pixbuf.Color{R: 10, G: 10, B: 200, A: 255}) {
		t.Errorf("right block: got %v", buf.At(7, 3))
	}

	var reduced imaging.ImageResult
	decodeToolResult(t, callTool(t, s, "image_pixelate", map[string]interface{}{
		"path":       imgPath,
		"block_area": 4,
		"reduce":     true,
	}), &reduced)

	if reduced.Width != 4 || reduced.Height != 2 {
		t.Errorf("reduced: got %dx%d, want 4x2", reduced.Width, reduced.Height)
	}
}

func TestHandleToolsCall_Resample(t *testing.T) {
	s := newQuietServer()
	imgPath := createTestImageFile(t, 100, 50, color.RGBA{9, 9, 9, 255})
	defer os.Remove(imgPath)

	tests := []struct {
		name         string
		args         map[string]interface{}
		wantW, wantH int
	}{
		{"exact", map[string]interface{}{"width": 30, "height": 40}, 30, 40},
		{"fit", map[string]interface{}{"width": 50, "height": 50, "fit": true}, 50, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.args["path"] = imgPath
			var result imaging.ImageResult
			decodeToolResult(t, callTool(t, s, "image_resample", tt.args), &result)
			if result.Width != tt.wantW || result.Height != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", result.Width, result.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestHandleToolsCall_Blocks(t *testing.T) {
	s := newQuietServer()
	imgPath := createPatternImageFile(t, 8, 8)

	var result BlocksResult
	decodeToolResult(t, callTool(t, s, "image_blocks", map[string]interface{}{
		"path":       imgPath,
		"block_area": 16,
		"scale":      2,
	}), &result)

	if result.Columns != 2 || result.Rows != 2 {
		t.Errorf("grid: got %dx%d, want 2x2", result.Columns, result.Rows)
	}
	if result.BlockSize != 8 {
		t.Errorf("BlockSize: got %d, want 8", result.BlockSize)
	}
	if len(result.Blocks) != 4 {
		t.Fatalf("got %d blocks, want 4", len(result.Blocks))
	}
	b := result.Blocks[1]
	if b.X != 8 || b.Y != 0 || b.Width != 8 || b.Height != 8 {
		t.Errorf("block 1 geometry: %+v", b)
	}
	if b.Color != (pixbuf.Color{R: 10, G: 10, B: 200, A: 255}) {
		t.Errorf("block 1 color: got %v", b.Color)
	}
}

func TestHandleToolsCall_ProcessDefault(t *testing.T) {
	s := newQuietServer()
	imgPath := createPatternImageFile(t, 100, 100)
	outPath := filepath.Join(t.TempDir(), "out", "mosaic.png")

	var result imaging.ImageResult
	decodeToolResult(t, callTool(t, s, "image_process", map[string]interface{}{
		"path":        imgPath,
		"output_path": outPath,
	}), &result)

	if result.Width != 400 || result.Height != 600 {
		t.Errorf("got %dx%d, want 400x600", result.Width, result.Height)
	}
	if result.SavedTo != outPath {
		t.Errorf("SavedTo: got %q, want %q", result.SavedTo, outPath)
	}

	saved, err := imaging.Decode(outPath)
	if err != nil {
		t.Fatalf("saved file unreadable: %v", err)
	}
	if imaging.FingerprintHex(saved) != result.Fingerprint {
		t.Error("saved file differs from returned image")
	}
	for _, c := range saved.Pix {
		if !quantize.DefaultPalette.Contains(c) {
			t.Fatalf("pixel %v not in default palette", c)
		}
	}
}

func TestHandleToolsCall_ProcessSteps(t *testing.T) {
	s := newQuietServer()
	imgPath := createPatternImageFile(t, 64, 32)

	var result imaging.ImageResult
	decodeToolResult(t, callTool(t, s, "image_process", map[string]interface{}{
		"path": imgPath,
		"steps": []map[string]interface{}{
			{"op": "reduce", "block_area": 16},
			{"op": "resample", "width": 32, "height": 16},
			{"op": "quantize", "metric": "euclidean", "palette": []string{"#C80A0A", "#0A0AC8"}},
		},
	}), &result)

	if result.Width != 32 || result.Height != 16 {
		t.Errorf("got %dx%d, want 32x16", result.Width, result.Height)
	}
	buf := decodeImage(t, &result)
	if buf.At(0, 0) != (pixbuf.Color{R: 200, G: 10, B: 10, A: 255}) {
		t.Errorf("left: got %v", buf.At(0, 0))
	}
	if buf.At(31, 15) != (pixbuf.Color{R: 10, G: 10, B: 200, A: 255}) {
		t.Errorf("right: got %v", buf.At(31, 15))
	}
}

func TestHandleToolsCall_CacheUnchanged(t *testing.T) {
	s := newQuietServer()
	imgPath := createPatternImageFile(t, 16, 16)

	before, err := s.cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	fp := before.Fingerprint()

	resp := callTool(t, s, "image_pixelate", map[string]interface{}{"path": imgPath, "block_area": 64})
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}

	after, _ := s.cache.Load(imgPath)
	if after.Fingerprint() != fp {
		t.Error("transform modified the cached buffer")
	}
}
