package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ironsheep/pixel-mosaic-mcp/internal/imaging"
	"github.com/ironsheep/pixel-mosaic-mcp/internal/pipeline"
	"github.com/ironsheep/pixel-mosaic-mcp/internal/pixbuf"
	"github.com/ironsheep/pixel-mosaic-mcp/internal/pixelate"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_pixelate").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.logger.Debug("tool complete", "tool", params.Name, "elapsed", time.Since(start))

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Translates the call into pipeline steps, validated before loading
//  4. Loads the source buffer from cache and runs the steps on a copy
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Transform Operations
	case "image_quantize":
		return s.handleImageQuantize(args)
	case "image_pixelate":
		return s.handleImagePixelate(args)
	case "image_resample":
		return s.handleImageResample(args)
	case "image_blocks":
		return s.handleImageBlocks(args)
	case "image_process":
		return s.handleImageProcess(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// runSteps validates steps, runs them on the cached buffer for path and encodes
// the result. When outputPath is set the result is also written there.
func (s *Server) runSteps(path string, steps []pipeline.Step, outputPath string) (*imaging.ImageResult, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required: %w", pixbuf.ErrInvalidArgument)
	}
	p, err := pipeline.Build(steps)
	if err != nil {
		return nil, err
	}
	if outputPath != "" {
		if _, err := imaging.EncoderFor(outputPath); err != nil {
			return nil, err
		}
	}

	src, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	out, err := p.WithLogger(s.logger.With("file", path)).Run(context.Background(), src)
	if err != nil {
		return nil, err
	}

	result, err := imaging.EncodeResult(out)
	if err != nil {
		return nil, err
	}
	if outputPath != "" {
		if err := imaging.Save(outputPath, out); err != nil {
			return nil, err
		}
		result.SavedTo = outputPath
	}
	return result, nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Transform Handlers ===

type imageQuantizeArgs struct {
	Path       string   `json:"path"`
	Metric     string   `json:"metric"`
	Palette    []string `json:"palette"`
	OutputPath string   `json:"output_path"`
}

func (s *Server) handleImageQuantize(args json.RawMessage) (interface{}, error) {
	var a imageQuantizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.runSteps(a.Path, []pipeline.Step{
		{Op: pipeline.OpQuantize, Metric: a.Metric, Palette: a.Palette},
	}, a.OutputPath)
}

type imagePixelateArgs struct {
	Path       string `json:"path"`
	BlockArea  int    `json:"block_area"`
	Reduce     bool   `json:"reduce"`
	Strict     bool   `json:"strict"`
	OutputPath string `json:"output_path"`
}

func (s *Server) handleImagePixelate(args json.RawMessage) (interface{}, error) {
	var a imagePixelateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	op := pipeline.OpPixelate
	if a.Reduce {
		op = pipeline.OpReduce
	}
	return s.runSteps(a.Path, []pipeline.Step{
		{Op: op, BlockArea: a.BlockArea, Strict: a.Strict},
	}, a.OutputPath)
}

type imageResampleArgs struct {
	Path       string `json:"path"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Fit        bool   `json:"fit"`
	OutputPath string `json:"output_path"`
}

func (s *Server) handleImageResample(args json.RawMessage) (interface{}, error) {
	var a imageResampleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	op := pipeline.OpResample
	if a.Fit {
		op = pipeline.OpFit
	}
	return s.runSteps(a.Path, []pipeline.Step{
		{Op: op, Width: a.Width, Height: a.Height},
	}, a.OutputPath)
}

type imageBlocksArgs struct {
	Path      string `json:"path"`
	BlockArea int    `json:"block_area"`
	Scale     int    `json:"scale"`
	Strict    bool   `json:"strict"`
}

// BlocksResult lists the drawable blocks of a pixelated image.
type BlocksResult struct {
	BlockSize int              `json:"block_size"`
	Columns   int              `json:"columns"`
	Rows      int              `json:"rows"`
	Scale     int              `json:"scale"`
	Blocks    []pixelate.Block `json:"blocks"`
}

func (s *Server) handleImageBlocks(args json.RawMessage) (interface{}, error) {
	var a imageBlocksArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1
	}
	if a.Strict && !pixelate.IsPerfectSquare(a.BlockArea) {
		return nil, fmt.Errorf("block_area %d is not a perfect square: %w", a.BlockArea, pixbuf.ErrInvalidArgument)
	}

	buf, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	blocks, err := pixelate.Blocks(buf, a.BlockArea, a.Scale)
	if err != nil {
		return nil, err
	}

	side, cols, rows := pixelate.Grid(buf.Width, buf.Height, a.BlockArea)
	return &BlocksResult{
		BlockSize: side * a.Scale,
		Columns:   cols,
		Rows:      rows,
		Scale:     a.Scale,
		Blocks:    blocks,
	}, nil
}

type imageProcessArgs struct {
	Path       string          `json:"path"`
	Steps      []pipeline.Step `json:"steps"`
	OutputPath string          `json:"output_path"`
}

func (s *Server) handleImageProcess(args json.RawMessage) (interface{}, error) {
	var a imageProcessArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Steps) == 0 {
		a.Steps = pipeline.DefaultSteps()
	}
	return s.runSteps(a.Path, a.Steps, a.OutputPath)
}
