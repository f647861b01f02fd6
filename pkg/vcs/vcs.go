// Package vcs models the change list a review runs against: an ordered
// sequence of (path, change-kind) entries comparing the working state of
// a pool to a baseline revision.
//
// The package does not open repositories itself. The change list arrives
// in one of two serialized forms produced by ordinary git tooling:
//
//   - a unified diff (git diff <baseline>), parsed with sourcegraph/go-diff
//   - a name-status list (git diff --name-status <baseline>)
//
// Both readers collapse duplicate paths (last entry wins) while keeping
// first-seen order, so downstream consumers see at most one entry per
// path.
package vcs

import "strconv"

// Kind classifies one changed path.
type Kind int

// Known change kinds. Unknown kinds carry their numeric code for
// forward compatibility with newer producers.
const (
	KindAdded Kind = iota
	KindModified
	kindUnknownBase Kind = 1000
)

// Unknown returns the Kind wrapping an unrecognized producer code.
func Unknown(code int) Kind {
	return kindUnknownBase + Kind(code)
}

// IsUnknown reports whether k is an unknown kind.
func (k Kind) IsUnknown() bool {
	return k >= kindUnknownBase
}

// Code returns the numeric code carried by an unknown kind.
func (k Kind) Code() int {
	return int(k - kindUnknownBase)
}

// String renders the kind the way the report prints it.
func (k Kind) String() string {
	switch k {
	case KindAdded:
		return "New"
	case KindModified:
		return "Modified"
	}
	return "Unknown (" + strconv.Itoa(k.Code()) + ")"
}

// Entry is one changed path.
type Entry struct {
	Path string
	Kind Kind
}

// dedupe collapses duplicate paths, keeping first-seen order and the
// last kind reported for each path.
func dedupe(entries []Entry) []Entry {
	idx := make(map[string]int, len(entries))
	out := entries[:0]
	for _, e := range entries {
		if i, ok := idx[e.Path]; ok {
			out[i].Kind = e.Kind
			continue
		}
		idx[e.Path] = len(out)
		out = append(out, e)
	}
	return out
}
