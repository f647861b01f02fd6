package review

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/poolreview/poolreview/pkg/natsort"
	"github.com/poolreview/poolreview/pkg/pool"
)

// Node is one row of the computed display tree.
type Node struct {
	Ref       pool.RecordRef
	Name      string
	Depth     int
	TypeOrder int
	InChange  bool
	Root      pool.RecordRef
}

// Closure is the forward dependency closure of the changed root parts.
type Closure struct {
	// Roots are the changed parts anchoring the traversal, ordered by
	// natural name then UUID.
	Roots []pool.RecordRef

	// Nodes is the ordered display tree: (root, typeOrder, depth), ties
	// broken by natural record name.
	Nodes []Node

	// Warnings collects data-integrity problems found while walking
	// (edges pointing at records absent from the pool). They are report
	// lines, never fatal.
	Warnings []string
}

// Roots selects the changed parts that anchor closure traversals: a
// changed part is a root iff its base is nil or its base is not itself
// in the change set. When a base and its derived part change together
// only the base anchors a closure; the derived part is represented by
// the derivation tree instead. A mid-chain changed part whose base also
// changed is never a root, even if other changed parts derive from it.
func Roots(p *pool.Pool, res *Resolution) []pool.RecordRef {
	var roots []pool.RecordRef
	for _, it := range res.ChangedParts() {
		part, ok := p.Parts[it.Ref.UUID]
		if !ok {
			continue
		}
		if !part.HasBase() || !res.InChange(pool.Ref(pool.TypePart, part.Base)) {
			roots = append(roots, it.Ref)
		}
	}
	slices.SortFunc(roots, func(a, b pool.RecordRef) int {
		na, _ := p.Name(a)
		nb, _ := p.Name(b)
		if c := natsort.Compare(na, nb); c != 0 {
			return c
		}
		return slices.Compare(a.UUID[:], b.UUID[:])
	})
	return roots
}

// Compute walks the dependency relation outward from every root to
// fixpoint and splices in the synthetic symbol and model rows. The
// result is deterministic for a fixed pool and change set.
func Compute(p *pool.Pool, res *Resolution) *Closure {
	c := &Closure{Roots: Roots(p, res)}
	for _, root := range c.Roots {
		c.walk(p, res, root)
	}
	c.sort(p)
	return c
}

// walk runs a breadth-first fixpoint from one root, carrying depth and
// deduplicating via a visited set. A ref reached on several paths keeps
// its minimum depth (BFS order guarantees the first visit is minimal)
// and is emitted once per root.
func (c *Closure) walk(p *pool.Pool, res *Resolution, root pool.RecordRef) {
	type workItem struct {
		ref   pool.RecordRef
		depth int
	}

	visited := map[pool.RecordRef]bool{root: true}
	queue := []workItem{{ref: root, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		name, ok := p.Name(cur.ref)
		if !ok {
			c.warnf("%s: referenced by the closure of %s but missing from the pool", cur.ref, root)
			continue
		}

		c.Nodes = append(c.Nodes, Node{
			Ref:       cur.ref,
			Name:      name,
			Depth:     cur.depth,
			TypeOrder: cur.ref.Type.Order(),
			InChange:  res.InChange(cur.ref),
			Root:      root,
		})
		c.synthesize(p, res, root, cur.ref, cur.depth)

		for _, e := range p.OutEdges(cur.ref) {
			if visited[e.To] {
				continue
			}
			visited[e.To] = true
			queue = append(queue, workItem{ref: e.To, depth: cur.depth + 1})
		}
	}
}

// synthesize appends the symbol and model rows hanging off a unit or
// package node. Neither is first-class in the primary edge relation;
// they sit at the parent's depth + 1 and are in-change iff their own
// file is in the change set.
func (c *Closure) synthesize(p *pool.Pool, res *Resolution, root, parent pool.RecordRef, depth int) {
	switch parent.Type {
	case pool.TypeUnit:
		syms := slices.Clone(p.SymbolsByUnit[parent.UUID])
		slices.SortFunc(syms, func(a, b *pool.Symbol) int {
			if cm := natsort.Compare(a.Name, b.Name); cm != 0 {
				return cm
			}
			return slices.Compare(a.UUID[:], b.UUID[:])
		})
		for _, sym := range syms {
			ref := pool.Ref(pool.TypeSymbol, sym.UUID)
			c.Nodes = append(c.Nodes, Node{
				Ref:       ref,
				Name:      sym.Name,
				Depth:     depth + 1,
				TypeOrder: pool.TypeSymbol.Order(),
				InChange:  res.InChange(ref),
				Root:      root,
			})
		}
	case pool.TypePackage:
		for _, path := range p.ModelPaths(parent.UUID) {
			c.Nodes = append(c.Nodes, Node{
				Ref:       pool.Ref(pool.TypeModel, pool.NilUUID),
				Name:      path,
				Depth:     depth + 1,
				TypeOrder: pool.TypeModel.Order(),
				InChange:  res.PathChanged(path),
				Root:      root,
			})
		}
	}
}

// sort fixes the display order: (root order, typeOrder, depth), ties by
// natural name then UUID.
func (c *Closure) sort(p *pool.Pool) {
	rootRank := make(map[pool.RecordRef]int, len(c.Roots))
	for i, r := range c.Roots {
		rootRank[r] = i
	}
	slices.SortStableFunc(c.Nodes, func(a, b Node) int {
		if ra, rb := rootRank[a.Root], rootRank[b.Root]; ra != rb {
			return ra - rb
		}
		if a.TypeOrder != b.TypeOrder {
			return a.TypeOrder - b.TypeOrder
		}
		if a.Depth != b.Depth {
			return a.Depth - b.Depth
		}
		if cm := natsort.Compare(a.Name, b.Name); cm != 0 {
			return cm
		}
		return slices.Compare(a.Ref.UUID[:], b.Ref.UUID[:])
	})
}

// Contains reports whether a ref appears anywhere in the closure.
func (c *Closure) Contains(ref pool.RecordRef) bool {
	for _, n := range c.Nodes {
		if n.Ref == ref {
			return true
		}
	}
	return false
}

// ContainsName reports whether a (type, name) row appears; used for the
// path-keyed model rows whose ref carries the nil UUID.
func (c *Closure) ContainsName(t pool.RecordType, name string) bool {
	for _, n := range c.Nodes {
		if n.Ref.Type == t && n.Name == name {
			return true
		}
	}
	return false
}

// RootUUIDs returns the root part UUIDs in root order.
func (c *Closure) RootUUIDs() []uuid.UUID {
	out := make([]uuid.UUID, len(c.Roots))
	for i, r := range c.Roots {
		out[i] = r.UUID
	}
	return out
}

func (c *Closure) warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}
