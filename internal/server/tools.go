package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the schema for the source image argument shared by every tool.
var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file",
}

// outputPathProperty is the schema for the optional save target of transform tools.
var outputPathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Optional path to also write the result to. Format follows the extension (.png, .jpg, .bmp, .tiff)",
}

// blockAreaProperty is the schema for the block size of pixelate and blocks.
var blockAreaProperty = map[string]interface{}{
	"type":        "integer",
	"description": "Pixels per block. Should be a perfect square (4, 9, 16, ...); other values use floor(sqrt) as the block side",
	"minimum":     1,
}

// strictProperty is the schema for rejecting non-square block areas.
var strictProperty = map[string]interface{}{
	"type":        "boolean",
	"description": "Reject block areas that are not perfect squares instead of truncating. Default false",
	"default":     false,
}

// paletteProperty is the schema for a custom quantization palette.
var paletteProperty = map[string]interface{}{
	"type":        "array",
	"items":       map[string]interface{}{"type": "string"},
	"description": "Palette colors as #RRGGBB or #RRGGBBAA. Defaults to a five-step green ramp",
}

// metricProperty is the schema for the quantization distance.
var metricProperty = map[string]interface{}{
	"type":        "string",
	"enum":        []string{"euclidean", "manhattan"},
	"description": "Color distance. euclidean skips pixels with any zero channel; manhattan premultiplies alpha and skips only transparent pixels. Default manhattan",
	"default":     "manhattan",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, container format, pixel format and whether it has transparency.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Transform Operations
		{
			Name:        "image_quantize",
			Description: "Map every pixel to its nearest palette color and return the result as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty,
					"metric":      metricProperty,
					"palette":     paletteProperty,
					"output_path": outputPathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_pixelate",
			Description: "Average square blocks of pixels into a mosaic. By default the image keeps its size; with reduce=true each block becomes a single pixel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty,
					"block_area": blockAreaProperty,
					"reduce": map[string]interface{}{
						"type":        "boolean",
						"description": "Shrink the image to one pixel per block. Default false",
						"default":     false,
					},
					"strict":      strictProperty,
					"output_path": outputPathProperty,
				},
				"required": []string{"path", "block_area"},
			},
		},
		{
			Name:        "image_resample",
			Description: "Resize an image by nearest-neighbor sampling. No interpolation: every output pixel is a copy of a source pixel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty,
					"width":  map[string]interface{}{"type": "integer", "description": "Target width in pixels", "minimum": 1},
					"height": map[string]interface{}{"type": "integer", "description": "Target height in pixels", "minimum": 1},
					"fit": map[string]interface{}{
						"type":        "boolean",
						"description": "Treat width and height as a bounding box and keep the aspect ratio. Default false",
						"default":     false,
					},
					"output_path": outputPathProperty,
				},
				"required": []string{"path", "width", "height"},
			},
		},
		{
			Name:        "image_blocks",
			Description: "Return one filled rectangle per pixelation block (position, size, average color) for renderers that draw blocks instead of pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty,
					"block_area": blockAreaProperty,
					"scale": map[string]interface{}{
						"type":        "integer",
						"description": "Multiplier applied to block positions and sizes. Default 1",
						"default":     1,
						"minimum":     1,
					},
					"strict": strictProperty,
				},
				"required": []string{"path", "block_area"},
			},
		},
		{
			Name:        "image_process",
			Description: "Run a chain of steps (resample, fit, pixelate, reduce, quantize) in order. Without steps, runs resample 400x600, pixelate 16, then manhattan quantize.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"steps": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"op": map[string]interface{}{
									"type": "string",
									"enum": []string{"quantize", "pixelate", "reduce", "resample", "fit"},
								},
								"metric":     metricProperty,
								"palette":    paletteProperty,
								"block_area": blockAreaProperty,
								"width":      map[string]interface{}{"type": "integer"},
								"height":     map[string]interface{}{"type": "integer"},
								"strict":     strictProperty,
							},
							"required": []string{"op"},
						},
						"description": "Steps in execution order. All steps are validated before any runs",
					},
					"output_path": outputPathProperty,
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
