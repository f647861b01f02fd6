package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/poolreview/poolreview/pkg/pipeline"
	"github.com/poolreview/poolreview/pkg/pool"
)

// =============================================================================
// Config File
// =============================================================================

// config holds per-pool defaults read from poolreview.toml. Every field
// is optional; command-line flags take precedence over config values.
type config struct {
	Output       string `toml:"output"`
	ImagesDir    string `toml:"images_dir"`
	ImagesPrefix string `toml:"images_prefix"`
	Graph        bool   `toml:"graph"`

	// Scale multiplies the preview magnification; MarginMM replaces the
	// per-record preview margin, in millimeters.
	Scale    float64 `toml:"scale"`
	MarginMM float64 `toml:"margin_mm"`

	// ForbiddenDomains replaces the datasheet aggregator blocklist.
	ForbiddenDomains []string `toml:"forbidden_datasheet_domains"`

	// Baseline names the revision change sets are taken against; it is
	// echoed in the report.
	Baseline string `toml:"baseline"`
}

// loadConfig reads poolreview.toml from the pool directory, falling
// back to the current working directory. A missing file is not an
// error; a malformed one is.
func loadConfig(poolDir string) (*config, error) {
	for _, dir := range []string{poolDir, "."} {
		path := filepath.Join(dir, configFile)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		var cfg config
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		return &cfg, nil
	}
	return &config{}, nil
}

// apply fills empty pipeline options from the config. Flags that were
// set on the command line are never overridden.
func (cfg *config) apply(opts *pipeline.Options) {
	if opts.Output == "" {
		opts.Output = cfg.Output
	}
	if opts.ImagesDir == "" {
		opts.ImagesDir = cfg.ImagesDir
	}
	if opts.ImagesPrefix == "" {
		opts.ImagesPrefix = cfg.ImagesPrefix
	}
	if !opts.Graph {
		opts.Graph = cfg.Graph
	}
	if opts.Scale == 0 {
		opts.Scale = cfg.Scale
	}
	if opts.Margin == 0 && cfg.MarginMM > 0 {
		opts.Margin = int64(cfg.MarginMM * float64(pool.MM))
	}
	if opts.ForbiddenDomains == nil {
		opts.ForbiddenDomains = cfg.ForbiddenDomains
	}
	if opts.Baseline == "" {
		opts.Baseline = cfg.Baseline
	}
}
