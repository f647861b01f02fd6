// Package checks holds the lint rules the report annotates records
// with. Checks never fail the run; they produce verdicts the assembler
// prints next to the offending record.
package checks

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/poolreview/poolreview/pkg/natsort"
	"github.com/poolreview/poolreview/pkg/pool"
)

// Level is a check verdict. Levels order by severity so that the
// strongest error level becomes the overall result.
type Level int

const (
	Pass Level = iota
	Warn
	Fail
)

func (l Level) String() string {
	switch l {
	case Pass:
		return "PASS"
	case Warn:
		return "WARN"
	case Fail:
		return "FAIL"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// CheckError is one finding of a rules check.
type CheckError struct {
	Level   Level
	Comment string
}

// Result is the outcome of running a rules check on one record.
type Result struct {
	Level  Level
	Errors []CheckError
}

func (r *Result) add(level Level, format string, args ...any) {
	r.Errors = append(r.Errors, CheckError{Level: level, Comment: fmt.Sprintf(format, args...)})
	if level > r.Level {
		r.Level = level
	}
}

// CheckPackage runs the package rules: pads must exist, be named and
// uniquely named; missing drawing primitives and sloppy names degrade
// to warnings.
func CheckPackage(pkg *pool.Package) *Result {
	r := &Result{}

	if len(pkg.Pads) == 0 {
		r.add(Fail, "package has no pads")
	}
	pads := make([]*pool.Pad, 0, len(pkg.Pads))
	for _, pad := range pkg.Pads {
		pads = append(pads, pad)
	}
	slices.SortFunc(pads, func(a, b *pool.Pad) int {
		if c := natsort.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return slices.Compare(a.UUID[:], b.UUID[:])
	})
	seen := make(map[string]bool)
	for _, pad := range pads {
		switch {
		case pad.Name == "":
			r.add(Fail, "pad %s has no name", pad.UUID)
		case seen[pad.Name]:
			r.add(Fail, "duplicate pad name %q", pad.Name)
		default:
			seen[pad.Name] = true
		}
		if NeedsTrim(pad.Name) {
			r.add(Warn, "pad name %q has trailing/leading whitespace", pad.Name)
		}
	}
	if NeedsTrim(pkg.Name) {
		r.add(Warn, "package name has trailing/leading whitespace")
	}
	if pkg.Drawing.Empty() {
		r.add(Warn, "package has no drawing primitives")
	}
	return r
}

// DefaultDatasheetDomains are aggregator sites; datasheets should link
// the primary source instead.
var DefaultDatasheetDomains = []string{
	"rs-online.com", "digikey.com", "mouser.com", "farnell.com", "octopart.com",
}

// CheckDatasheet returns the forbidden domain a datasheet URL points
// at, or "" when the URL is acceptable. A nil domain list selects
// DefaultDatasheetDomains.
func CheckDatasheet(url string, domains []string) string {
	if domains == nil {
		domains = DefaultDatasheetDomains
	}
	for _, d := range domains {
		if strings.Contains(url, d) {
			return d
		}
	}
	return ""
}

// NeedsTrim reports whether s carries leading or trailing whitespace.
func NeedsTrim(s string) bool {
	if s == "" {
		return false
	}
	runes := []rune(s)
	return unicode.IsSpace(runes[0]) || unicode.IsSpace(runes[len(runes)-1])
}

// ValueEqualsMPN flags parts whose value slot merely repeats the MPN;
// the value column is meant for the electrical value.
func ValueEqualsMPN(attrs map[pool.Attribute]string) bool {
	mpn, value := attrs[pool.AttrMPN], attrs[pool.AttrValue]
	return mpn != "" && mpn == value
}
