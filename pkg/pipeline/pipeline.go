// Package pipeline orchestrates the review stages: load the pool, read
// the change set, resolve and traverse, then assemble the report with
// its preview images.
package pipeline

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/poolreview/poolreview/pkg/vcs"
)

// Options configures one review run.
type Options struct {
	// PoolDir is the pool root directory.
	PoolDir string `json:"pool_dir"`

	// DiffPath points at a serialized unified diff describing the
	// change set. Mutually exclusive with ChangesPath.
	DiffPath string `json:"diff_path,omitempty"`

	// ChangesPath points at a git name-status listing describing the
	// change set. Mutually exclusive with DiffPath.
	ChangesPath string `json:"changes_path,omitempty"`

	// Output is the markdown report destination.
	Output string `json:"output"`

	// ImagesDir receives the rendered preview images.
	ImagesDir string `json:"images_dir"`

	// ImagesPrefix is prepended to image links in the report.
	ImagesPrefix string `json:"images_prefix,omitempty"`

	// Graph enables the per-root dependency overview diagrams.
	Graph bool `json:"graph,omitempty"`

	// Scale multiplies the preview magnification. Zero keeps the
	// per-record base.
	Scale float64 `json:"scale,omitempty"`

	// Margin replaces the per-record preview margin (pool units) when
	// positive.
	Margin int64 `json:"margin,omitempty"`

	// ForbiddenDomains overrides the datasheet aggregator blocklist.
	// Nil keeps the built-in defaults.
	ForbiddenDomains []string `json:"forbidden_domains,omitempty"`

	// Baseline names the revision the change set was taken against;
	// the report echoes it under the items heading.
	Baseline string `json:"baseline,omitempty"`

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks option consistency. Safe to call more
// than once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.PoolDir == "" {
		return fmt.Errorf("pool directory not specified")
	}
	if o.Output == "" {
		return fmt.Errorf("output filename not specified")
	}
	if o.ImagesDir == "" {
		return fmt.Errorf("images directory not specified")
	}
	if o.DiffPath == "" && o.ChangesPath == "" {
		return fmt.Errorf("change set not specified: need --diff or --changes")
	}
	if o.DiffPath != "" && o.ChangesPath != "" {
		return fmt.Errorf("--diff and --changes are mutually exclusive")
	}
	if o.Scale < 0 {
		return fmt.Errorf("scale must not be negative")
	}
	if o.Margin < 0 {
		return fmt.Errorf("margin must not be negative")
	}
	o.validated = true
	return nil
}

// readChanges loads the change set from whichever source the options
// name.
func (o *Options) readChanges() ([]vcs.Entry, error) {
	if o.DiffPath != "" {
		f, err := os.Open(o.DiffPath)
		if err != nil {
			return nil, fmt.Errorf("open diff: %w", err)
		}
		defer f.Close()
		return vcs.ReadUnifiedDiff(f)
	}
	f, err := os.Open(o.ChangesPath)
	if err != nil {
		return nil, fmt.Errorf("open changes: %w", err)
	}
	defer f.Close()
	return vcs.ReadNameStatus(f)
}

// Stats contains per-stage timing and size information.
type Stats struct {
	RecordCount int
	ItemCount   int
	NodeCount   int
	ImageCount  int

	LoadTime   time.Duration
	ReviewTime time.Duration
	ReportTime time.Duration
}

// Result is one completed review run.
type Result struct {
	// Report is the assembled markdown document.
	Report []byte

	// Images holds the rendered previews keyed by file name.
	Images map[string][]byte

	Stats Stats
}
