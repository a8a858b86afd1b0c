package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ironsheep/pixel-mosaic-mcp/internal/pixbuf"
	"github.com/ironsheep/pixel-mosaic-mcp/internal/pixelate"
	"github.com/ironsheep/pixel-mosaic-mcp/internal/quantize"
)

// Operation names accepted in Step.Op.
const (
	OpQuantize = "quantize"
	OpPixelate = "pixelate"
	OpReduce   = "reduce"
	OpResample = "resample"
	OpFit      = "fit"
)

// Step describes one stage in a form that travels through JSON and CLI flags.
//
// Which fields apply depends on Op:
//
//	quantize  Metric (default "manhattan"), Palette (default quantize.DefaultPalette)
//	pixelate  BlockArea, Strict
//	reduce    BlockArea, Strict
//	resample  Width, Height
//	fit       Width, Height
type Step struct {
	Op        string   `json:"op"`
	Metric    string   `json:"metric,omitempty"`
	Palette   []string `json:"palette,omitempty"`
	BlockArea int      `json:"block_area,omitempty"`
	Width     int      `json:"width,omitempty"`
	Height    int      `json:"height,omitempty"`

	// Strict rejects block areas that are not perfect squares instead of
	// truncating the block side.
	Strict bool `json:"strict,omitempty"`
}

// String renders the step for logs, e.g. "pixelate(16)" or "fit(400x600)".
func (s Step) String() string {
	switch s.Op {
	case OpQuantize:
		metric := s.Metric
		if metric == "" {
			metric = quantize.Manhattan.String()
		}
		return fmt.Sprintf("%s(%s)", s.Op, metric)
	case OpPixelate, OpReduce:
		return fmt.Sprintf("%s(%d)", s.Op, s.BlockArea)
	case OpResample, OpFit:
		return fmt.Sprintf("%s(%dx%d)", s.Op, s.Width, s.Height)
	}
	return s.Op
}

// Stage validates the step and returns the transform it describes.
func (s Step) Stage() (Stage, error) {
	switch s.Op {
	case OpQuantize:
		m := quantize.Manhattan
		if s.Metric != "" {
			var err error
			if m, err = quantize.ParseMetric(s.Metric); err != nil {
				return nil, err
			}
		}
		pal := quantize.DefaultPalette
		if len(s.Palette) > 0 {
			var err error
			if pal, err = quantize.ParsePalette(s.Palette); err != nil {
				return nil, err
			}
		}
		return Quantize(pal, m), nil

	case OpPixelate, OpReduce:
		if s.BlockArea < 1 {
			return nil, fmt.Errorf("%s: block_area must be at least 1, got %d: %w",
				s.Op, s.BlockArea, pixbuf.ErrInvalidArgument)
		}
		if s.Strict && !pixelate.IsPerfectSquare(s.BlockArea) {
			return nil, fmt.Errorf("%s: block_area %d is not a perfect square: %w",
				s.Op, s.BlockArea, pixbuf.ErrInvalidArgument)
		}
		if s.Op == OpReduce {
			return Reduce(s.BlockArea), nil
		}
		return Pixelate(s.BlockArea), nil

	case OpResample, OpFit:
		if s.Width < 1 || s.Height < 1 {
			return nil, fmt.Errorf("%s: size must be at least 1x1, got %dx%d: %w",
				s.Op, s.Width, s.Height, pixbuf.ErrInvalidArgument)
		}
		if s.Op == OpFit {
			return Fit(s.Width, s.Height), nil
		}
		return Resample(s.Width, s.Height), nil
	}
	return nil, fmt.Errorf("unknown op %q: %w", s.Op, pixbuf.ErrInvalidArgument)
}

// DefaultSteps is the reference chain: resample to 400x600, pixelate with
// 16-pixel blocks, then quantize to the default palette by Manhattan distance.
func DefaultSteps() []Step {
	return []Step{
		{Op: OpResample, Width: 400, Height: 600},
		{Op: OpPixelate, BlockArea: 16},
		{Op: OpQuantize, Metric: quantize.Manhattan.String()},
	}
}

// ParseSize parses "WxH" into positive dimensions.
func ParseSize(s string) (width, height int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q: want WxH: %w", s, pixbuf.ErrInvalidArgument)
	}
	width, werr := strconv.Atoi(ws)
	height, herr := strconv.Atoi(hs)
	if werr != nil || herr != nil || width < 1 || height < 1 {
		return 0, 0, fmt.Errorf("size %q: want positive WxH: %w", s, pixbuf.ErrInvalidArgument)
	}
	return width, height, nil
}
