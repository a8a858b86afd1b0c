package imaging

import (
	"fmt"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/pixel-mosaic-mcp/internal/pixbuf"
)

// BufferCache provides thread-safe caching of decoded pixel buffers to avoid
// redundant disk reads.
//
// Buffers are keyed by the exact path string given to Load. Different paths to
// the same file (e.g., relative vs absolute) are separate entries.
//
// # Example Usage
//
//	cache := imaging.NewBufferCache()
//	buf, err := cache.Load("/path/to/image.png")
//	if err != nil {
//	    return err
//	}
//	out, err := pixelate.Pixelate(buf, 16)
type BufferCache struct {
	mu      sync.RWMutex
	buffers map[string]*pixbuf.Buffer
}

// NewBufferCache creates and initializes a new empty buffer cache.
func NewBufferCache() *BufferCache {
	return &BufferCache{
		buffers: make(map[string]*pixbuf.Buffer),
	}
}

// Load retrieves a buffer from the cache or decodes it from disk if not cached.
//
// Parameters:
//   - path: Absolute or relative file path to the image.
//
// Returns:
//   - *pixbuf.Buffer: The decoded straight-alpha RGBA buffer. It is shared with
//     the cache and must not be modified.
//   - error: Non-nil if the file cannot be opened or decoded.
func (c *BufferCache) Load(path string) (*pixbuf.Buffer, error) {
	c.mu.RLock()
	if buf, ok := c.buffers[path]; ok {
		c.mu.RUnlock()
		return buf, nil
	}
	c.mu.RUnlock()

	buf, err := Decode(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.buffers[path] = buf
	c.mu.Unlock()

	return buf, nil
}

// Len returns the number of cached buffers.
func (c *BufferCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.buffers)
}

// Clear removes all buffers from the cache.
func (c *BufferCache) Clear() {
	c.mu.Lock()
	c.buffers = make(map[string]*pixbuf.Buffer)
	c.mu.Unlock()
}

// Evict removes a specific buffer from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *BufferCache) Evict(path string) {
	c.mu.Lock()
	delete(c.buffers, path)
	c.mu.Unlock()
}

// Decode reads and decodes an image file into a pixel buffer, bypassing any
// cache. EXIF orientation is applied.
func Decode(path string) (*pixbuf.Buffer, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return pixbuf.FromImage(img), nil
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the container format detected from the file extension:
	// "png", "jpeg", "gif", "bmp", "tiff", "webp" or "unknown".
	Format string `json:"format"`

	// PixelFormat is the pixel layout of the decoded source, e.g. "rgba8" or "paletted".
	PixelFormat string `json:"pixel_format"`

	// HasAlpha indicates whether any pixel is less than fully opaque.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through the cache and returns metadata about it.
//
// Parameters:
//   - cache: The buffer cache to use for loading. Must not be nil.
//   - path: Path to the image file.
//
// Returns:
//   - *ImageInfo: Metadata about the image.
//   - error: Non-nil if the image cannot be loaded or the file cannot be stat'd.
func LoadImageInfo(cache *BufferCache, path string) (*ImageInfo, error) {
	buf, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	hasAlpha := false
	for _, c := range buf.Pix {
		if c.A != 0xff {
			hasAlpha = true
			break
		}
	}

	return &ImageInfo{
		Width:         buf.Width,
		Height:        buf.Height,
		Format:        FormatFromExt(path),
		PixelFormat:   buf.Format.String(),
		HasAlpha:      hasAlpha,
		FileSizeBytes: stat.Size(),
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image without additional metadata.
func GetDimensions(cache *BufferCache, path string) (*DimensionsResult, error) {
	buf, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	return &DimensionsResult{Width: buf.Width, Height: buf.Height}, nil
}

// FormatFromExt maps a file extension to a container format name.
func FormatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	case ".webp":
		return "webp"
	}
	return "unknown"
}
