package vcs

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadNameStatus parses `git diff --name-status` output: one line per
// file, a status letter, a tab, then the path. A and M map to the known
// kinds; any other status letter becomes an Unknown kind carrying the
// letter's byte value, so new producer statuses survive round-trip into
// the report instead of failing the run.
func ReadNameStatus(r io.Reader) ([]Entry, error) {
	var entries []Entry

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		status, path, ok := strings.Cut(line, "\t")
		if !ok || status == "" || path == "" {
			return nil, fmt.Errorf("malformed name-status line %q", line)
		}

		var kind Kind
		switch status[0] {
		case 'A':
			kind = KindAdded
		case 'M':
			kind = KindModified
		default:
			kind = Unknown(int(status[0]))
		}
		// Renames and copies carry two paths; review the destination.
		if i := strings.LastIndexByte(path, '\t'); i >= 0 {
			path = path[i+1:]
		}
		entries = append(entries, Entry{Path: path, Kind: kind})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read change list: %w", err)
	}
	return dedupe(entries), nil
}
