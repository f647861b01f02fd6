package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poolreview/poolreview/pkg/pipeline"
	"github.com/poolreview/poolreview/pkg/pool"
)

func TestLoadConfigMissing(t *testing.T) {
	cfg, err := loadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Output != "" || cfg.ImagesDir != "" || cfg.Graph {
		t.Errorf("missing config should yield zero values, got %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	data := `
output = "out/review.md"
images_dir = "out/images"
images_prefix = "https://example.com/img/"
graph = true
scale = 2.0
margin_mm = 0.5
forbidden_datasheet_domains = ["example-distributor.test"]
baseline = "origin/master"
`
	if err := os.WriteFile(filepath.Join(dir, configFile), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(dir)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Output != "out/review.md" {
		t.Errorf("Output = %q", cfg.Output)
	}
	if cfg.ImagesDir != "out/images" {
		t.Errorf("ImagesDir = %q", cfg.ImagesDir)
	}
	if cfg.ImagesPrefix != "https://example.com/img/" {
		t.Errorf("ImagesPrefix = %q", cfg.ImagesPrefix)
	}
	if !cfg.Graph {
		t.Error("Graph should be true")
	}
	if cfg.Scale != 2.0 {
		t.Errorf("Scale = %v", cfg.Scale)
	}
	if cfg.MarginMM != 0.5 {
		t.Errorf("MarginMM = %v", cfg.MarginMM)
	}
	if len(cfg.ForbiddenDomains) != 1 || cfg.ForbiddenDomains[0] != "example-distributor.test" {
		t.Errorf("ForbiddenDomains = %v", cfg.ForbiddenDomains)
	}
	if cfg.Baseline != "origin/master" {
		t.Errorf("Baseline = %q", cfg.Baseline)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, configFile), []byte("output = ["), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadConfig(dir); err == nil {
		t.Error("loadConfig() should fail on malformed toml")
	}
}

func TestConfigApply(t *testing.T) {
	cfg := &config{
		Output:           "cfg.md",
		ImagesDir:        "cfgimg",
		ImagesPrefix:     "pfx/",
		Graph:            true,
		Scale:            2.0,
		MarginMM:         0.5,
		ForbiddenDomains: []string{"example-distributor.test"},
		Baseline:         "origin/master",
	}

	t.Run("fills empty options", func(t *testing.T) {
		opts := pipeline.Options{}
		cfg.apply(&opts)
		if opts.Output != "cfg.md" || opts.ImagesDir != "cfgimg" || opts.ImagesPrefix != "pfx/" || !opts.Graph {
			t.Errorf("apply() = %+v", opts)
		}
		if opts.Scale != 2.0 {
			t.Errorf("Scale = %v", opts.Scale)
		}
		if opts.Margin != pool.MM/2 {
			t.Errorf("Margin = %v, want %v", opts.Margin, pool.MM/2)
		}
		if len(opts.ForbiddenDomains) != 1 || opts.ForbiddenDomains[0] != "example-distributor.test" {
			t.Errorf("ForbiddenDomains = %v", opts.ForbiddenDomains)
		}
		if opts.Baseline != "origin/master" {
			t.Errorf("Baseline = %q", opts.Baseline)
		}
	})

	t.Run("flags take precedence", func(t *testing.T) {
		opts := pipeline.Options{Output: "flag.md", ImagesDir: "flagimg", ImagesPrefix: "flag/"}
		cfg.apply(&opts)
		if opts.Output != "flag.md" || opts.ImagesDir != "flagimg" || opts.ImagesPrefix != "flag/" {
			t.Errorf("apply() overrode flags: %+v", opts)
		}
	})
}
