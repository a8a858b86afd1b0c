package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ironsheep/pixel-mosaic-mcp/internal/pixbuf"
)

// Pipeline is a validated, ordered list of stages.
type Pipeline struct {
	steps  []Step
	stages []Stage
	logger *slog.Logger
}

// Build validates every step and returns the pipeline they describe. Nothing
// runs if any step is invalid.
//
// Parameters:
//   - steps: Stage descriptions in execution order. Must not be empty.
//
// Returns:
//   - *Pipeline: The validated pipeline, logging to slog.Default().
//   - error: Wraps pixbuf.ErrInvalidArgument with the index of the first bad step.
func Build(steps []Step) (*Pipeline, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("pipeline has no steps: %w", pixbuf.ErrInvalidArgument)
	}

	p := &Pipeline{
		steps:  append([]Step(nil), steps...),
		stages: make([]Stage, len(steps)),
		logger: slog.Default(),
	}
	for i, s := range steps {
		stage, err := s.Stage()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		p.stages[i] = stage
	}
	return p, nil
}

// WithLogger returns a copy of p that logs to logger.
func (p *Pipeline) WithLogger(logger *slog.Logger) *Pipeline {
	cp := *p
	cp.logger = logger
	return &cp
}

// Steps returns a copy of the step descriptions.
func (p *Pipeline) Steps() []Step {
	return append([]Step(nil), p.steps...)
}

// Len returns the number of stages.
func (p *Pipeline) Len() int {
	return len(p.stages)
}

// Run applies every stage in order to a private copy of buf and returns the
// final buffer. buf itself is never modified.
//
// ctx is checked before each stage; a stage in progress always runs to
// completion.
func (p *Pipeline) Run(ctx context.Context, buf *pixbuf.Buffer) (*pixbuf.Buffer, error) {
	h := NewHandle(buf)
	for i := range p.stages {
		if err := p.apply(ctx, h, i); err != nil {
			return nil, err
		}
	}
	return h.Take(), nil
}

// apply runs stage i against the handle.
func (p *Pipeline) apply(ctx context.Context, h *Handle, i int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("before step %d (%s): %w", i, p.steps[i], err)
	}

	start := time.Now()
	if err := h.Apply(p.stages[i]); err != nil {
		return fmt.Errorf("step %d (%s): %w", i, p.steps[i], err)
	}

	out := h.Current()
	p.logger.Debug("stage complete",
		"step", p.steps[i].String(),
		"width", out.Width,
		"height", out.Height,
		"elapsed", time.Since(start))
	return nil
}
