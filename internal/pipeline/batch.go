package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/ironsheep/pixel-mosaic-mcp/internal/imaging"
)

// BatchConfig holds the parameters of a batch run.
type BatchConfig struct {
	// OutputDir receives the transformed files. It is created if missing.
	OutputDir string

	// Ext picks the output encoder, e.g. ".png" or ".tiff". Defaults to ".png".
	Ext string

	// Workers bounds the number of files processed at once. Zero means
	// runtime.NumCPU().
	Workers int

	// Cache is used to decode sources. Defaults to a fresh cache.
	Cache *imaging.BufferCache

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// BatchResult reports the outcome for one source file.
type BatchResult struct {
	Source      string `json:"source"`
	Output      string `json:"output,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Err         error  `json:"-"`
}

// Batch runs one pipeline over many files.
type Batch struct {
	cfg BatchConfig
	p   *Pipeline
}

// NewBatch fills in config defaults and returns a batch for p.
func NewBatch(p *Pipeline, cfg BatchConfig) *Batch {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Ext == "" {
		cfg.Ext = ".png"
	}
	if !strings.HasPrefix(cfg.Ext, ".") {
		cfg.Ext = "." + cfg.Ext
	}
	if cfg.Cache == nil {
		cfg.Cache = imaging.NewBufferCache()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Batch{cfg: cfg, p: p}
}

// Run processes every source and returns one result per source, in input
// order.
//
// Individual failures are recorded in their result and logged; Run itself
// fails only when there is nothing to do, the output directory cannot be
// created, or every source failed.
func (b *Batch) Run(ctx context.Context, sources []string) ([]BatchResult, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images to process")
	}
	if _, err := imaging.EncoderFor("out" + b.cfg.Ext); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(b.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	results := make([]BatchResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, b.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, path string) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			results[idx] = b.processFile(ctx, path)
		}(i, src)
	}
	wg.Wait()

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed == len(sources) {
		return results, fmt.Errorf("all %d images failed to process", failed)
	}
	if failed > 0 {
		b.cfg.Logger.Warn("batch finished with errors", "failed", failed, "total", len(sources))
	}
	return results, nil
}

// processFile handles one source: load, transform, save.
func (b *Batch) processFile(ctx context.Context, path string) BatchResult {
	logger := b.cfg.Logger.With("file", path)
	result := BatchResult{Source: path}

	src, err := b.cfg.Cache.Load(path)
	if err != nil {
		result.Err = fmt.Errorf("load %s: %w", path, err)
		logger.Error("load failed", "error", err)
		return result
	}
	// Sources are read once per batch.
	defer b.cfg.Cache.Evict(path)

	out, err := b.p.WithLogger(logger).Run(ctx, src)
	if err != nil {
		result.Err = fmt.Errorf("process %s: %w", path, err)
		logger.Error("pipeline failed", "error", err)
		return result
	}

	name := imaging.ContentAddressedName(path, out, b.cfg.Ext)
	dst := filepath.Join(b.cfg.OutputDir, name)
	if err := imaging.Save(dst, out); err != nil {
		result.Err = err
		logger.Error("save failed", "error", err)
		return result
	}

	result.Output = dst
	result.Width = out.Width
	result.Height = out.Height
	result.Fingerprint = imaging.FingerprintHex(out)
	logger.Info("processed", "output", dst, "width", out.Width, "height", out.Height)
	return result
}

// imageExtensions lists the source extensions ScanImages picks up.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// ScanImages walks dir and returns the paths of all image files, skipping
// hidden directories.
func ScanImages(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if imageExtensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}
