package checks

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/poolreview/poolreview/pkg/pool"
)

func pkgWithPads(names ...string) *pool.Package {
	p := &pool.Package{
		UUID: uuid.MustParse("22222222-0000-0000-0000-000000000001"),
		Name: "TEST",
		Pads: make(map[uuid.UUID]*pool.Pad),
		Drawing: pool.Drawing{
			Lines: []pool.LineSeg{{To: pool.Coord{X: pool.MM, Y: 0}, Width: pool.MM / 10}},
		},
	}
	for i, name := range names {
		id := uuid.MustParse("22222222-0000-0000-0000-0000000000a0")
		id[15] = byte(i + 1)
		p.Pads[id] = &pool.Pad{UUID: id, Name: name}
	}
	return p
}

func TestCheckPackage(t *testing.T) {
	tests := []struct {
		name  string
		pkg   *pool.Package
		level Level
		match string
	}{
		{"clean", pkgWithPads("1", "2"), Pass, ""},
		{"no pads", pkgWithPads(), Fail, "no pads"},
		{"unnamed pad", pkgWithPads("1", ""), Fail, "has no name"},
		{"duplicate pad", pkgWithPads("1", "1"), Fail, "duplicate pad name"},
		{"whitespace pad", pkgWithPads("1 ", "2"), Warn, "whitespace"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := CheckPackage(tt.pkg)
			if r.Level != tt.level {
				t.Fatalf("level = %s, want %s (errors %+v)", r.Level, tt.level, r.Errors)
			}
			if tt.match == "" {
				if len(r.Errors) != 0 {
					t.Fatalf("errors = %+v", r.Errors)
				}
				return
			}
			found := false
			for _, e := range r.Errors {
				if strings.Contains(e.Comment, tt.match) {
					found = true
				}
			}
			if !found {
				t.Errorf("no error matching %q in %+v", tt.match, r.Errors)
			}
		})
	}
}

func TestCheckPackageEmptyDrawing(t *testing.T) {
	p := pkgWithPads("1")
	p.Drawing = pool.Drawing{}
	r := CheckPackage(p)
	if r.Level != Warn {
		t.Fatalf("level = %s, want WARN", r.Level)
	}
}

func TestCheckDatasheet(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.ti.com/lit/ds/symlink/ne555.pdf", ""},
		{"https://www.digikey.com/en/products/detail/123", "digikey.com"},
		{"https://octopart.com/ne555", "octopart.com"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CheckDatasheet(tt.url, nil); got != tt.want {
			t.Errorf("CheckDatasheet(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestCheckDatasheetCustomDomains(t *testing.T) {
	domains := []string{"example-distributor.test"}
	if got := CheckDatasheet("https://example-distributor.test/x.pdf", domains); got != domains[0] {
		t.Errorf("got %q, want %q", got, domains[0])
	}
	// A custom list replaces the defaults entirely.
	if got := CheckDatasheet("https://www.mouser.com/x.pdf", domains); got != "" {
		t.Errorf("got %q, want no match", got)
	}
}

func TestNeedsTrim(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"", false},
		{"ok", false},
		{" leading", true},
		{"trailing ", true},
		{"inner space", false},
		{"\ttab", true},
	}
	for _, tt := range tests {
		if got := NeedsTrim(tt.s); got != tt.want {
			t.Errorf("NeedsTrim(%q) = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestValueEqualsMPN(t *testing.T) {
	if !ValueEqualsMPN(map[pool.Attribute]string{pool.AttrMPN: "X", pool.AttrValue: "X"}) {
		t.Error("equal MPN and value should flag")
	}
	if ValueEqualsMPN(map[pool.Attribute]string{pool.AttrMPN: "X", pool.AttrValue: "10k"}) {
		t.Error("distinct value should not flag")
	}
	if ValueEqualsMPN(map[pool.Attribute]string{pool.AttrMPN: "", pool.AttrValue: ""}) {
		t.Error("empty pair should not flag")
	}
}
