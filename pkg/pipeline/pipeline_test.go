package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func poolFixtureFiles() map[string]string {
	return map[string]string{
		"parts/r1.json": `{
			"uuid": "55555555-0000-0000-0000-000000000001",
			"entity": "55555555-0000-0000-0000-000000000010",
			"package": "55555555-0000-0000-0000-000000000040",
			"MPN": [false, "R1"],
			"manufacturer": [false, "ACME"]
		}`,
		"entities/r.json": `{
			"uuid": "55555555-0000-0000-0000-000000000010",
			"name": "Resistor",
			"gates": {
				"55555555-0000-0000-0000-0000000000a1": {
					"uuid": "55555555-0000-0000-0000-0000000000a1",
					"name": "Main",
					"unit": "55555555-0000-0000-0000-000000000020"
				}
			}
		}`,
		"units/r.json": `{
			"uuid": "55555555-0000-0000-0000-000000000020",
			"name": "Resistor",
			"pins": {}
		}`,
		"symbols/r.json": `{
			"uuid": "55555555-0000-0000-0000-000000000030",
			"name": "Resistor",
			"unit": "55555555-0000-0000-0000-000000000020",
			"drawing": {"lines": [{"from": [0, 0], "to": [1000000, 0], "width": 100000}]}
		}`,
		"packages/r.json": `{
			"uuid": "55555555-0000-0000-0000-000000000040",
			"name": "0402",
			"pads": {
				"55555555-0000-0000-0000-0000000000b1": {
					"uuid": "55555555-0000-0000-0000-0000000000b1",
					"name": "1",
					"position": [0, 0]
				}
			},
			"drawing": {"lines": [{"from": [0, 0], "to": [500000, 0], "width": 50000}]}
		}`,
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		ok   bool
	}{
		{"valid diff", Options{PoolDir: "p", Output: "o", ImagesDir: "i", DiffPath: "d"}, true},
		{"valid changes", Options{PoolDir: "p", Output: "o", ImagesDir: "i", ChangesPath: "c"}, true},
		{"no pool", Options{Output: "o", ImagesDir: "i", DiffPath: "d"}, false},
		{"no output", Options{PoolDir: "p", ImagesDir: "i", DiffPath: "d"}, false},
		{"no images dir", Options{PoolDir: "p", Output: "o", DiffPath: "d"}, false},
		{"no change source", Options{PoolDir: "p", Output: "o", ImagesDir: "i"}, false},
		{"both sources", Options{PoolDir: "p", Output: "o", ImagesDir: "i", DiffPath: "d", ChangesPath: "c"}, false},
		{"negative scale", Options{PoolDir: "p", Output: "o", ImagesDir: "i", DiffPath: "d", Scale: -1}, false},
		{"negative margin", Options{PoolDir: "p", Output: "o", ImagesDir: "i", DiffPath: "d", Margin: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("want error")
			}
		})
	}
}

func TestExecute(t *testing.T) {
	poolDir := writeTree(t, poolFixtureFiles())
	workDir := t.TempDir()

	changes := filepath.Join(workDir, "changes.txt")
	if err := os.WriteFile(changes, []byte("M\tparts/r1.json\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := Options{
		PoolDir:      poolDir,
		ChangesPath:  changes,
		Output:       filepath.Join(workDir, "review.md"),
		ImagesDir:    filepath.Join(workDir, "imgs"),
		ImagesPrefix: "imgs/",
		Baseline:     "origin/master",
	}
	result, err := NewRunner(nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	if result.Stats.ItemCount != 1 {
		t.Errorf("items = %d, want 1", result.Stats.ItemCount)
	}
	if result.Stats.NodeCount == 0 {
		t.Error("closure should not be empty")
	}

	md, err := os.ReadFile(opts.Output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(md), "# Items in this PR") {
		t.Errorf("report content wrong:\n%s", md)
	}
	if !strings.Contains(string(md), "Compared against origin/master") {
		t.Error("baseline should be echoed in the report")
	}
	if !strings.Contains(string(md), "**Part R1**") {
		t.Error("changed part should be bold in the overview")
	}

	// The changed part is not itself rendered, but its unit's symbol
	// and its package are not in the change set here, so only the
	// derived-tree part detail appears; no images required for this
	// change set.
	if _, err := os.Stat(opts.ImagesDir); err != nil {
		t.Errorf("images dir missing: %v", err)
	}
}

func TestExecuteWithDiff(t *testing.T) {
	poolDir := writeTree(t, poolFixtureFiles())
	workDir := t.TempDir()

	diff := filepath.Join(workDir, "pr.diff")
	diffText := `--- a/packages/r.json
+++ b/packages/r.json
@@ -1,1 +1,1 @@
-x
+y
`
	if err := os.WriteFile(diff, []byte(diffText), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := Options{
		PoolDir:   poolDir,
		DiffPath:  diff,
		Output:    filepath.Join(workDir, "review.md"),
		ImagesDir: filepath.Join(workDir, "imgs"),
	}
	result, err := NewRunner(nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if result.Stats.ImageCount == 0 {
		t.Error("changed package should produce a preview image")
	}
	entries, err := os.ReadDir(opts.ImagesDir)
	if err != nil || len(entries) == 0 {
		t.Errorf("images not written: %v", err)
	}
}

func TestExecuteBadPool(t *testing.T) {
	workDir := t.TempDir()
	changes := filepath.Join(workDir, "changes.txt")
	if err := os.WriteFile(changes, []byte("M\tparts/r1.json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	opts := Options{
		PoolDir:     filepath.Join(workDir, "missing"),
		ChangesPath: changes,
		Output:      filepath.Join(workDir, "review.md"),
		ImagesDir:   filepath.Join(workDir, "imgs"),
	}
	if _, err := NewRunner(nil).Execute(context.Background(), opts); err == nil {
		t.Fatal("want error for missing pool")
	}
}
