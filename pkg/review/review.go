package review

import (
	"github.com/poolreview/poolreview/pkg/pool"
	"github.com/poolreview/poolreview/pkg/vcs"
)

// Review bundles every computed view of one change set. It is the
// complete input of the report assembler.
type Review struct {
	Resolution *Resolution
	Closure    *Closure

	// Derived is the base→derived display tree rooted at the closure
	// roots; empty when no changed part derives from a base.
	Derived []DerivedNode

	// Orphans are changed records not associated with any part: neither
	// reachable in a root closure nor present in the derived tree.
	Orphans []Item
}

// Run resolves the change entries against the pool and computes the
// closure, the derived-parts tree and the orphan set. It never fails:
// per-record problems surface as closure warnings or orphans.
func Run(p *pool.Pool, entries []vcs.Entry) *Review {
	res := Resolve(p, entries)
	closure := Compute(p, res)

	r := &Review{
		Resolution: res,
		Closure:    closure,
		Derived:    DerivedTree(p, closure.RootUUIDs(), res),
	}
	r.Orphans = r.findOrphans()
	return r
}

// findOrphans returns the changed items that appear in neither display
// tree. Model rows are matched by path since they share the nil UUID.
func (r *Review) findOrphans() []Item {
	inDerived := make(map[pool.RecordRef]bool, len(r.Derived))
	for _, d := range r.Derived {
		inDerived[pool.Ref(pool.TypePart, d.UUID)] = true
	}

	var orphans []Item
	for _, it := range r.Resolution.Items {
		switch {
		case it.Ref.Type == pool.TypeModel:
			if !r.Closure.ContainsName(pool.TypeModel, it.Path) {
				orphans = append(orphans, it)
			}
		case it.Ref.Type == pool.TypePart:
			if !inDerived[it.Ref] && !r.Closure.Contains(it.Ref) {
				orphans = append(orphans, it)
			}
		default:
			if !r.Closure.Contains(it.Ref) {
				orphans = append(orphans, it)
			}
		}
	}
	return orphans
}
