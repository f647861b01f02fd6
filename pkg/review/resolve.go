// Package review implements the change-resolution and dependency-closure
// engine at the heart of a pool review: mapping changed paths to typed
// records, walking the cross-type dependency graph from the changed
// roots, and resolving part attribute inheritance along derivation
// chains.
//
// Everything here is pure computation over a loaded, read-only
// [pool.Pool]; no I/O happens in this package.
package review

import (
	"github.com/poolreview/poolreview/pkg/pool"
	"github.com/poolreview/poolreview/pkg/vcs"
)

// Item is one changed path resolved to a typed record.
type Item struct {
	Ref  pool.RecordRef
	Name string
	Path string
	Kind vcs.Kind
}

// Resolution is the output of the change resolver: the changed paths
// that map to records, and the "non-item" paths that map to nothing.
type Resolution struct {
	Items    []Item
	NonItems []string

	byRef  map[pool.RecordRef]struct{}
	byPath map[string]vcs.Kind
}

// Resolve maps the change entries to typed record identities using the
// pool's path table. Entries with no matching row are collected as
// non-items. A path matching several records (malformed pool) emits the
// first match by (type, uuid) order and keeps going; it must not fail
// the run.
//
// Resolve is a pure mapping: entry order is preserved and the pool is
// not touched beyond lookups.
func Resolve(p *pool.Pool, entries []vcs.Entry) *Resolution {
	res := &Resolution{
		byRef:  make(map[pool.RecordRef]struct{}),
		byPath: make(map[string]vcs.Kind),
	}

	for _, e := range entries {
		res.byPath[e.Path] = e.Kind
		rows := p.Lookup(e.Path)
		if len(rows) == 0 {
			res.NonItems = append(res.NonItems, e.Path)
			continue
		}
		row := rows[0]
		item := Item{Ref: row.Ref, Name: row.Name, Path: e.Path, Kind: e.Kind}
		if item.Ref.Type == pool.TypeModel {
			// Model rows are path-keyed; the name is the path itself.
			item.Name = e.Path
		}
		res.Items = append(res.Items, item)
		res.byRef[item.Ref] = struct{}{}
	}
	return res
}

// InChange reports whether ref appears in the resolved change set with
// matching type.
func (r *Resolution) InChange(ref pool.RecordRef) bool {
	_, ok := r.byRef[ref]
	return ok
}

// PathChanged reports whether the given pool-relative path is in the
// change set. Used for path-keyed model files, which share a single
// nil-UUID ref.
func (r *Resolution) PathChanged(path string) bool {
	_, ok := r.byPath[path]
	return ok
}

// ChangedParts returns the UUIDs of all changed part records, in item
// order.
func (r *Resolution) ChangedParts() []Item {
	var out []Item
	for _, it := range r.Items {
		if it.Ref.Type == pool.TypePart {
			out = append(out, it)
		}
	}
	return out
}
