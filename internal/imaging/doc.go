// Package imaging moves pixel buffers between files and the MCP wire format.
//
// It is the boundary around the pure transforms in pixbuf, quantize, pixelate
// and resample: files are decoded into pixbuf.Buffer values on the way in, and
// finished buffers are encoded to disk or to base64 PNG on the way out.
//
// # Supported Formats
//
// Decoding: PNG, JPEG, GIF, BMP, TIFF and WebP. EXIF orientation is applied
// while decoding.
//
// Encoding: PNG, JPEG, BMP and TIFF, chosen by file extension.
//
// # Thread Safety
//
// The BufferCache type is safe for concurrent use. Buffers returned from the
// cache are shared; treat them as read-only and Clone before modifying.
//
// # Performance Considerations
//
// Decoded buffers stay in memory until evicted. Long-running servers handling
// many files should call Evict() or Clear() to bound memory.
package imaging
