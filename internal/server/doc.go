// Package server implements the MCP (Model Context Protocol) server for pixel
// mosaic tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the quantize,
// pixelate and resample transforms through the MCP protocol, so an MCP client
// can turn a photo into a palette-limited mosaic and get the pixels back.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Transform Operations:
//   - image_quantize: Reduce to a palette by Euclidean or Manhattan distance
//   - image_pixelate: Block-average into a same-size or reduced mosaic
//   - image_resample: Nearest-neighbor resize, exact or fit-to-box
//   - image_blocks: Drawable block rectangles with their average colors
//   - image_process: Run a validated chain of the steps above
//
// Transform tools return the result as base64 PNG together with its
// dimensions, pixel format and an xxHash64 fingerprint of the pixels. Passing
// output_path also writes the result to disk.
//
// # Image Caching
//
// The server maintains an in-memory cache of decoded buffers. Buffers are
// cached by path and reused across tool calls; transforms always run on a
// private copy, so the cached buffer is never modified.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Logging
//
// Diagnostics go to the configured slog.Logger, never to stdout.
//
// # Usage
//
//	srv := server.NewWithConfig(server.Config{Version: version, Logger: logger})
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
