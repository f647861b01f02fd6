package pool

import (
	"slices"

	"github.com/google/uuid"

	"github.com/poolreview/poolreview/pkg/natsort"
)

// Pool is a loaded component library: the record tables per type, the
// path→record lookup relation, and the flat dependency-edge relation.
// A Pool is read-only after Load returns.
type Pool struct {
	Base string // pool root directory

	Parts     map[uuid.UUID]*Part
	Entities  map[uuid.UUID]*Entity
	Units     map[uuid.UUID]*Unit
	Symbols   map[uuid.UUID]*Symbol
	Packages  map[uuid.UUID]*Package
	Padstacks map[uuid.UUID]*Padstack

	// PathTable maps pool-relative file paths (forward slashes) to the
	// records stored there. Model files map to a model_3d entry with the
	// nil UUID; unmodeled files have no entry at all.
	PathTable map[string][]PathEntry

	// Edges is the primary dependency relation: part→entity,
	// part→package, entity→unit, package→padstack. Symbols and models
	// are not first-class here; the closure engine synthesizes them from
	// SymbolsByUnit and package model refs.
	Edges []DependencyEdge

	// SymbolsByUnit indexes symbols by the unit they depict.
	SymbolsByUnit map[uuid.UUID][]*Symbol

	// Warnings collects non-fatal problems found while loading
	// (malformed record files, duplicate path rows).
	Warnings []string

	names map[RecordRef]string
	paths map[RecordRef]string
}

// Name returns the display name of a record. Part names are their
// resolved MPN. The second result is false for unknown refs.
func (p *Pool) Name(ref RecordRef) (string, bool) {
	n, ok := p.names[ref]
	return n, ok
}

// Path returns the pool-relative file path a record was loaded from.
func (p *Pool) Path(ref RecordRef) (string, bool) {
	pa, ok := p.paths[ref]
	return pa, ok
}

// Exists reports whether the ref resolves to a loaded record.
func (p *Pool) Exists(ref RecordRef) bool {
	_, ok := p.names[ref]
	return ok
}

// Lookup returns the path table rows for a pool-relative path, ordered
// deterministically by (type, uuid).
func (p *Pool) Lookup(path string) []PathEntry {
	rows := p.PathTable[path]
	if len(rows) < 2 {
		return rows
	}
	out := slices.Clone(rows)
	slices.SortFunc(out, func(a, b PathEntry) int {
		if a.Ref.Type != b.Ref.Type {
			return int(a.Ref.Type) - int(b.Ref.Type)
		}
		return cmpUUID(a.Ref.UUID, b.Ref.UUID)
	})
	return out
}

// OutEdges returns the dependency edges leaving ref.
func (p *Pool) OutEdges(ref RecordRef) []DependencyEdge {
	var out []DependencyEdge
	for _, e := range p.Edges {
		if e.From == ref {
			out = append(out, e)
		}
	}
	return out
}

// ManufacturerCount counts parts whose resolved manufacturer equals mfr.
// The original review annotates every manufacturer cell with this count
// so reviewers can spot near-duplicate spellings.
func (p *Pool) ManufacturerCount(mfr string) int {
	if mfr == "" {
		return 0
	}
	n := 0
	for _, part := range p.Parts {
		if p.resolvedAttr(part, AttrManufacturer) == mfr {
			n++
		}
	}
	return n
}

// PartsSortedByMPN returns all part UUIDs ordered by resolved MPN in
// natural order, for deterministic iteration.
func (p *Pool) PartsSortedByMPN() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(p.Parts))
	for id := range p.Parts {
		out = append(out, id)
	}
	slices.SortFunc(out, func(a, b uuid.UUID) int {
		na := p.names[Ref(TypePart, a)]
		nb := p.names[Ref(TypePart, b)]
		if c := natsort.Compare(na, nb); c != 0 {
			return c
		}
		return cmpUUID(a, b)
	})
	return out
}

// resolvedAttr walks the base chain until a non-inherited slot is found.
// Cycles terminate the walk with the last value seen; full cycle
// diagnostics are the inheritance resolver's job.
func (p *Pool) resolvedAttr(part *Part, attr Attribute) string {
	seen := make(map[uuid.UUID]bool)
	for part != nil {
		if seen[part.UUID] {
			break
		}
		seen[part.UUID] = true
		slot := part.Attr(attr)
		if !slot.Inherit || !part.HasBase() {
			return slot.Value
		}
		part = p.Parts[part.Base]
	}
	return ""
}

func cmpUUID(a, b uuid.UUID) int {
	return slices.Compare(a[:], b[:])
}
