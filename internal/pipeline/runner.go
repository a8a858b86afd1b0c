package pipeline

import (
	"context"
	"errors"

	"github.com/ironsheep/pixel-mosaic-mcp/internal/pixbuf"
)

// Frame is one buffer handed from a Runner to its presenter.
type Frame struct {
	// Step is the index of the stage that produced Buffer.
	Step int

	// Final is set on the last frame of a successful run.
	Final bool

	// Buffer belongs to the receiver. The runner keeps no reference to it.
	Buffer *pixbuf.Buffer

	// Err is set on the last frame of a failed or cancelled run; Buffer is nil.
	Err error
}

// Runner drives a pipeline on a background goroutine so a presenter can show
// each stage's output while later stages run.
type Runner struct {
	p *Pipeline
}

// NewRunner returns a runner for p.
func NewRunner(p *Pipeline) *Runner {
	return &Runner{p: p}
}

// Start transforms a private copy of buf in the background and returns the
// channel it reports on. One frame is sent per completed stage, in order, and
// the channel is closed after the final frame or the first error.
//
// Intermediate frames carry a copy of the working buffer; the final frame
// carries the working buffer itself. Either way the receiver is the only
// owner. Cancelling ctx stops the run before the next stage, and also
// unblocks a send nobody is receiving.
func (r *Runner) Start(ctx context.Context, buf *pixbuf.Buffer) <-chan Frame {
	frames := make(chan Frame)
	h := NewHandle(buf)

	go func() {
		defer close(frames)

		last := r.p.Len() - 1
		for i := range r.p.stages {
			if err := r.p.apply(ctx, h, i); err != nil {
				send(ctx, frames, Frame{Step: i, Err: err})
				return
			}

			frame := Frame{Step: i, Final: i == last}
			if frame.Final {
				frame.Buffer = h.Take()
			} else {
				frame.Buffer = h.Current().Clone()
			}
			if !send(ctx, frames, frame) {
				return
			}
		}
	}()

	return frames
}

// Wait drains frames and returns the final buffer, or the first error. ctx
// must be the context given to Start.
func Wait(ctx context.Context, frames <-chan Frame) (*pixbuf.Buffer, error) {
	var final *pixbuf.Buffer
	for f := range frames {
		if f.Err != nil {
			return nil, f.Err
		}
		if f.Final {
			final = f.Buffer
		}
	}
	if final == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("runner stopped without a final frame")
	}
	return final, nil
}

func send(ctx context.Context, frames chan<- Frame, f Frame) bool {
	select {
	case frames <- f:
		return true
	case <-ctx.Done():
		return false
	}
}
