package review

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/poolreview/poolreview/pkg/natsort"
	"github.com/poolreview/poolreview/pkg/pool"
)

// CyclicDerivationError reports a part whose base chain, directly or
// transitively, returns to a part already on the chain. It is fatal for
// that part's report section only; the run continues with other parts.
type CyclicDerivationError struct {
	Ref pool.RecordRef
}

func (e *CyclicDerivationError) Error() string {
	return fmt.Sprintf("cyclic derivation at %s", e.Ref)
}

// MissingBaseError reports a part whose base reference is absent from
// the pool.
type MissingBaseError struct {
	Part pool.RecordRef
	Base uuid.UUID
}

func (e *MissingBaseError) Error() string {
	return fmt.Sprintf("%s: base part %s missing from the pool", e.Part, e.Base)
}

// Chain returns the derivation chain of a part, ordered from the part
// itself to its ultimate base. A repeated ref fails with
// *CyclicDerivationError naming the offending part; a dangling base
// fails with *MissingBaseError.
func Chain(p *pool.Pool, id uuid.UUID) ([]*pool.Part, error) {
	var chain []*pool.Part
	visited := make(map[uuid.UUID]bool)

	cur, ok := p.Parts[id]
	if !ok {
		return nil, &MissingBaseError{Part: pool.Ref(pool.TypePart, id), Base: id}
	}
	for {
		if visited[cur.UUID] {
			return nil, &CyclicDerivationError{Ref: pool.Ref(pool.TypePart, cur.UUID)}
		}
		visited[cur.UUID] = true
		chain = append(chain, cur)

		if !cur.HasBase() {
			return chain, nil
		}
		next, ok := p.Parts[cur.Base]
		if !ok {
			return nil, &MissingBaseError{Part: pool.Ref(pool.TypePart, cur.UUID), Base: cur.Base}
		}
		cur = next
	}
}

// AttrResolution is one resolved attribute slot: the winning value and
// whether it came from an ancestor rather than the part itself.
type AttrResolution struct {
	Value     string
	Inherited bool
}

// PartAttributes is the full resolved view of a part.
type PartAttributes struct {
	Attrs       map[pool.Attribute]AttrResolution
	Tags        []string
	TagsInherit bool
	// Base is the direct base part, nil for underived parts.
	Base *pool.Part
}

// ResolveAttributes walks the derivation chain from the part outward;
// for each attribute slot the first chain link holding an explicit
// (non-inherit) value wins, and Inherited records whether that link is
// an ancestor. Resolution is idempotent over an unchanged pool.
func ResolveAttributes(p *pool.Pool, id uuid.UUID) (*PartAttributes, error) {
	chain, err := Chain(p, id)
	if err != nil {
		return nil, err
	}

	out := &PartAttributes{Attrs: make(map[pool.Attribute]AttrResolution, len(pool.Attributes))}
	if len(chain) > 1 {
		out.Base = chain[1]
	}

	for _, attr := range pool.Attributes {
		resolved := AttrResolution{}
		for i, link := range chain {
			slot := link.Attr(attr)
			if slot.Inherit && i < len(chain)-1 {
				continue
			}
			resolved = AttrResolution{Value: slot.Value, Inherited: i > 0}
			break
		}
		out.Attrs[attr] = resolved
	}

	// Tags resolve the same way through the inherit-tags flag.
	for i, link := range chain {
		if link.InheritTags && i < len(chain)-1 {
			continue
		}
		out.Tags = link.Tags
		out.TagsInherit = i > 0
		break
	}
	return out, nil
}

// DerivedNode is one row of the base→derived display tree.
type DerivedNode struct {
	UUID     uuid.UUID
	Name     string
	Depth    int
	InChange bool
}

// DerivedTree builds the display tree over base→derived edges among
// parts, rooted at the given top-level parts. Children are visited
// depth-first in natural name order so the emitted sequence indents
// directly into the report tree. Cycles in corrupt data are cut by the
// visited set rather than looping.
func DerivedTree(p *pool.Pool, roots []uuid.UUID, res *Resolution) []DerivedNode {
	children := make(map[uuid.UUID][]uuid.UUID)
	for id, part := range p.Parts {
		if part.HasBase() {
			children[part.Base] = append(children[part.Base], id)
		}
	}
	for base := range children {
		slices.SortFunc(children[base], func(a, b uuid.UUID) int {
			na, _ := p.Name(pool.Ref(pool.TypePart, a))
			nb, _ := p.Name(pool.Ref(pool.TypePart, b))
			if c := natsort.Compare(na, nb); c != 0 {
				return c
			}
			return slices.Compare(a[:], b[:])
		})
	}

	var (
		out     []DerivedNode
		visited = make(map[uuid.UUID]bool)
		emit    func(id uuid.UUID, depth int)
	)
	emit = func(id uuid.UUID, depth int) {
		if visited[id] {
			return
		}
		visited[id] = true
		name, _ := p.Name(pool.Ref(pool.TypePart, id))
		out = append(out, DerivedNode{
			UUID:     id,
			Name:     name,
			Depth:    depth,
			InChange: res.InChange(pool.Ref(pool.TypePart, id)),
		})
		for _, child := range children[id] {
			emit(child, depth+1)
		}
	}
	for _, root := range roots {
		emit(root, 0)
	}
	return out
}

// HasDerived reports whether derivation is involved in the change set
// at all: a changed part either derives from a base or is itself the
// base of derived parts. The derived-parts report sections only appear
// when this is true.
func HasDerived(p *pool.Pool, res *Resolution) bool {
	changed := make(map[uuid.UUID]bool)
	for _, it := range res.ChangedParts() {
		if part, ok := p.Parts[it.Ref.UUID]; ok {
			if part.HasBase() {
				return true
			}
			changed[it.Ref.UUID] = true
		}
	}
	for _, part := range p.Parts {
		if part.HasBase() && changed[part.Base] {
			return true
		}
	}
	return false
}
