package vcs

import (
	"fmt"
	"io"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// devNull is the origin name git uses for newly added files.
const devNull = "/dev/null"

// ReadUnifiedDiff parses a unified diff into change entries. A file
// whose origin is /dev/null is Added, a file whose target is /dev/null
// is a deletion and surfaces under the origin path with the same
// Unknown kind a name-status D line produces; everything else is
// Modified. git's a/ and b/ prefixes are stripped.
func ReadUnifiedDiff(r io.Reader) ([]Entry, error) {
	files, err := diff.NewMultiFileDiffReader(r).ReadAllFiles()
	if err != nil {
		return nil, fmt.Errorf("parse diff: %w", err)
	}

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		path := stripPrefix(f.NewName, "b/")
		if path == devNull {
			entries = append(entries, Entry{
				Path: stripPrefix(f.OrigName, "a/"),
				Kind: Unknown('D'),
			})
			continue
		}
		kind := KindModified
		if f.OrigName == devNull {
			kind = KindAdded
		}
		entries = append(entries, Entry{Path: path, Kind: kind})
	}
	return dedupe(entries), nil
}

func stripPrefix(name, prefix string) string {
	if name == devNull {
		return name
	}
	return strings.TrimPrefix(name, prefix)
}
