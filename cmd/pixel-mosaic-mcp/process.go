package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/pixel-mosaic-mcp/internal/pipeline"
)

// processFlags mirrors the step options of the process command. Steps always
// run in the order resize/fit, pixelate/reduce, quantize.
type processFlags struct {
	resize    string
	fit       string
	pixelate  int
	reduce    int
	strict    bool
	quantize  string
	palette   []string
	stepsFile string

	outDir  string
	format  string
	workers int
}

func newProcessCmd(opts *options) *cobra.Command {
	f := &processFlags{}

	cmd := &cobra.Command{
		Use:   "process [flags] <image|dir>...",
		Short: "Transform image files into pixel mosaics",
		Long: `Load each image, run the transform steps and write the result to the
output directory. Directories are scanned recursively for images.

Without any step flags the reference chain runs: resize to 400x600,
pixelate with 16-pixel blocks, quantize by Manhattan distance to the
default green palette.

Output filenames are content-addressed: <name>.<w>x<h>.<hash><ext>`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, opts, f, args)
		},
	}

	cmd.Flags().StringVar(&f.resize, "resize", "", "resample to exactly WxH")
	cmd.Flags().StringVar(&f.fit, "fit", "", "resample to fit within WxH, keeping aspect ratio")
	cmd.Flags().IntVar(&f.pixelate, "pixelate", 0, "average blocks of this many pixels, keeping size")
	cmd.Flags().IntVar(&f.reduce, "reduce", 0, "collapse blocks of this many pixels to one pixel")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "reject block areas that are not perfect squares")
	cmd.Flags().StringVar(&f.quantize, "quantize", "", "quantize with metric: euclidean or manhattan")
	cmd.Flags().StringSliceVar(&f.palette, "palette", nil, "palette colors as #RRGGBB[AA] (default green ramp)")
	cmd.Flags().StringVar(&f.stepsFile, "steps", "", "JSON file with a list of steps; overrides step flags")
	cmd.Flags().StringVarP(&f.outDir, "out", "o", "./mosaic_out", "output directory")
	cmd.Flags().StringVar(&f.format, "format", "png", "output format: png, jpg, bmp or tiff")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = NumCPU)")

	cmd.MarkFlagsMutuallyExclusive("resize", "fit")
	cmd.MarkFlagsMutuallyExclusive("pixelate", "reduce")
	return cmd
}

func runProcess(cmd *cobra.Command, opts *options, f *processFlags, args []string) error {
	start := time.Now()

	steps, err := f.steps()
	if err != nil {
		return err
	}
	p, err := pipeline.Build(steps)
	if err != nil {
		return fmt.Errorf("invalid steps: %w", err)
	}

	sources, err := collectSources(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger := opts.logger
	logger.Info("processing", "files", len(sources), "steps", fmt.Sprint(p.Steps()), "out", f.outDir)

	batch := pipeline.NewBatch(p.WithLogger(logger), pipeline.BatchConfig{
		OutputDir: f.outDir,
		Ext:       "." + f.format,
		Workers:   f.workers,
		Logger:    logger,
	})
	results, err := batch.Run(ctx, sources)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", r.Source, r.Err)
			continue
		}
		fmt.Fprintf(out, "ok   %s -> %s (%dx%d)\n", r.Source, r.Output, r.Width, r.Height)
	}
	fmt.Fprintf(out, "%d of %d images processed in %s\n",
		len(results)-failed, len(results), time.Since(start).Round(time.Millisecond))
	return nil
}

// steps turns the flags into pipeline steps.
func (f *processFlags) steps() ([]pipeline.Step, error) {
	if f.stepsFile != "" {
		data, err := os.ReadFile(f.stepsFile)
		if err != nil {
			return nil, fmt.Errorf("read steps: %w", err)
		}
		var steps []pipeline.Step
		if err := json.Unmarshal(data, &steps); err != nil {
			return nil, fmt.Errorf("parse steps %s: %w", f.stepsFile, err)
		}
		return steps, nil
	}

	var steps []pipeline.Step
	for _, size := range []struct{ op, val string }{
		{pipeline.OpResample, f.resize},
		{pipeline.OpFit, f.fit},
	} {
		if size.val == "" {
			continue
		}
		w, h, err := pipeline.ParseSize(size.val)
		if err != nil {
			return nil, err
		}
		steps = append(steps, pipeline.Step{Op: size.op, Width: w, Height: h})
	}
	if f.pixelate != 0 {
		steps = append(steps, pipeline.Step{Op: pipeline.OpPixelate, BlockArea: f.pixelate, Strict: f.strict})
	}
	if f.reduce != 0 {
		steps = append(steps, pipeline.Step{Op: pipeline.OpReduce, BlockArea: f.reduce, Strict: f.strict})
	}
	if f.quantize != "" || len(f.palette) > 0 {
		steps = append(steps, pipeline.Step{Op: pipeline.OpQuantize, Metric: f.quantize, Palette: f.palette})
	}

	if len(steps) == 0 {
		return pipeline.DefaultSteps(), nil
	}
	return steps, nil
}

// collectSources expands directory arguments into the images they contain.
func collectSources(args []string) ([]string, error) {
	var sources []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			sources = append(sources, arg)
			continue
		}
		found, err := pipeline.ScanImages(arg)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", filepath.Clean(arg), err)
		}
		sources = append(sources, found...)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %v", args)
	}
	return sources, nil
}
