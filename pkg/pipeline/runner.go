package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/poolreview/poolreview/pkg/pool"
	"github.com/poolreview/poolreview/pkg/render"
	"github.com/poolreview/poolreview/pkg/report"
	"github.com/poolreview/poolreview/pkg/review"
)

// Runner executes review runs. It is stateless apart from the logger;
// one Runner can serve several runs in sequence.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger falls back to log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete load → changes → review → report pipeline
// and writes the report and images to the configured destinations.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := r.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	}

	result := &Result{Images: make(map[string][]byte)}

	// Stage 1: Load
	loadStart := time.Now()
	p, err := pool.Load(opts.PoolDir)
	if err != nil {
		return nil, fmt.Errorf("load pool: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.RecordCount = len(p.PathTable)
	logger.Info("loaded pool",
		"records", result.Stats.RecordCount,
		"warnings", len(p.Warnings),
		"duration", result.Stats.LoadTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Change set + review
	reviewStart := time.Now()
	entries, err := opts.readChanges()
	if err != nil {
		return nil, fmt.Errorf("read changes: %w", err)
	}
	rev := review.Run(p, entries)
	result.Stats.ReviewTime = time.Since(reviewStart)
	result.Stats.ItemCount = len(rev.Resolution.Items)
	result.Stats.NodeCount = len(rev.Closure.Nodes)
	logger.Info("computed review",
		"items", result.Stats.ItemCount,
		"roots", len(rev.Closure.Roots),
		"nodes", result.Stats.NodeCount,
		"orphans", len(rev.Orphans),
		"duration", result.Stats.ReviewTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Report + images
	reportStart := time.Now()
	md, images, err := report.New(p, rev, report.Options{
		ImagesPrefix: opts.ImagesPrefix,
		Graph:        opts.Graph,
		Render:       render.Options{Scale: opts.Scale, Margin: opts.Margin},
		Domains:      opts.ForbiddenDomains,
		Baseline:     opts.Baseline,
		Logger:       logger,
	}).Generate()
	if err != nil {
		return nil, fmt.Errorf("assemble report: %w", err)
	}
	result.Report = md
	for _, img := range images {
		result.Images[img.Name] = img.Data
	}
	result.Stats.ReportTime = time.Since(reportStart)
	result.Stats.ImageCount = len(result.Images)
	logger.Info("assembled report",
		"bytes", len(md),
		"images", result.Stats.ImageCount,
		"duration", result.Stats.ReportTime)

	if err := r.write(opts, result); err != nil {
		return nil, err
	}
	return result, nil
}

// write persists the report and its images.
func (r *Runner) write(opts Options, result *Result) error {
	if err := os.MkdirAll(opts.ImagesDir, 0o755); err != nil {
		return fmt.Errorf("create images dir: %w", err)
	}
	for name, data := range result.Images {
		if err := os.WriteFile(filepath.Join(opts.ImagesDir, name), data, 0o644); err != nil {
			return fmt.Errorf("write image %s: %w", name, err)
		}
	}
	if dir := filepath.Dir(opts.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(opts.Output, result.Report, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
