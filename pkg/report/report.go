// Package report assembles the markdown change review from the
// resolved change set, the dependency closure and the derived-parts
// view, rendering record previews along the way.
package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/poolreview/poolreview/pkg/checks"
	"github.com/poolreview/poolreview/pkg/natsort"
	"github.com/poolreview/poolreview/pkg/pool"
	"github.com/poolreview/poolreview/pkg/render"
	"github.com/poolreview/poolreview/pkg/review"
)

const whitespaceWarning = "(:warning: has trailing/leading whitespace)"

// Options configures report assembly.
type Options struct {
	// ImagesPrefix is prepended to every image link, e.g. an URL path
	// the images directory is served under.
	ImagesPrefix string

	// Graph enables the per-root dependency overview diagrams.
	Graph bool

	// Render adjusts preview scale and margin.
	Render render.Options

	// Domains overrides the forbidden datasheet domain list. Nil keeps
	// the defaults.
	Domains []string

	// Baseline names the revision the change set was taken against.
	// When set it is echoed under the items heading.
	Baseline string

	Logger *log.Logger
}

// Generator assembles one report. Not safe for concurrent use.
type Generator struct {
	opts Options
	pool *pool.Pool
	rev  *review.Review

	buf    strings.Builder
	images []render.Image
}

// New returns a generator over an already computed review.
func New(p *pool.Pool, rev *review.Review, opts Options) *Generator {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Generator{opts: opts, pool: p, rev: rev}
}

// Generate assembles the markdown document and the preview images it
// links. Per-record render failures are logged and the record skipped;
// only assembly-level problems fail the call.
func (g *Generator) Generate() ([]byte, []render.Image, error) {
	g.itemsSection()
	g.nonItemsSection()
	g.overviewSection()
	g.orphansSection()
	g.derivedSection()
	if g.opts.Graph {
		g.graphSection()
	}
	g.detailsSection()
	g.warningsSection()
	return []byte(g.buf.String()), g.images, nil
}

func (g *Generator) printf(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
}

// surroundIf wraps s in the marker when cond holds; the report uses it
// for bold in-change rows and italic inherited values.
func surroundIf(marker, s string, cond bool) string {
	if cond && s != "" {
		return marker + s + marker
	}
	return s
}

func warnIfTrim(s string) string {
	if checks.NeedsTrim(s) {
		return s + " " + whitespaceWarning
	}
	return s
}

// =============================================================================
// Change set sections
// =============================================================================

func (g *Generator) itemsSection() {
	g.printf("# Items in this PR\n")
	if g.opts.Baseline != "" {
		g.printf("Compared against %s\n\n", g.opts.Baseline)
	}
	g.printf("| State | Type | Name | Filename |\n")
	g.printf("| --- | --- | --- | --- |\n")
	for _, it := range g.rev.Resolution.Items {
		g.printf("|%s | %s | %s | %s\n",
			it.Kind, it.Ref.Type.Display(), warnIfTrim(it.Name), it.Path)
	}
	g.printf("\n")
}

func (g *Generator) nonItemsSection() {
	if len(g.rev.Resolution.NonItems) == 0 {
		return
	}
	g.printf("# Non-items\n")
	for _, path := range g.rev.Resolution.NonItems {
		g.printf(" - %s\n", path)
	}
	g.printf("\n")
}

func (g *Generator) overviewSection() {
	g.printf("# Parts overview (excluding derived)\n")
	g.printf("Bold items are from this PR\n")
	for _, n := range g.rev.Closure.Nodes {
		g.printf("%s- %s\n",
			strings.Repeat("  ", n.Depth),
			surroundIf("**", n.Ref.Type.Display()+" "+n.Name, n.InChange))
	}
	g.printf("\n")
}

func (g *Generator) orphansSection() {
	if len(g.rev.Orphans) == 0 {
		return
	}
	g.printf("# Items not associated with any part\n")
	for _, it := range g.rev.Orphans {
		g.printf(" - %s %s\n", it.Ref.Type.Display(), it.Name)
	}
	g.printf("\n")
}

// =============================================================================
// Derived parts
// =============================================================================

func (g *Generator) derivedSection() {
	if !review.HasDerived(g.pool, g.rev.Resolution) {
		return
	}

	g.printf("# Derived parts\n")
	g.printf("Bold items are from this PR\n")
	for _, n := range g.rev.Derived {
		g.printf("%s- %s\n",
			strings.Repeat("  ", n.Depth), surroundIf("**", n.Name, n.InChange))
	}
	g.printf("\n")

	g.printf("# Parts table\n")
	g.printf("Values in italic are inherited\n")
	g.printf("| MPN | Value | Manufacturer | Datasheet | Description | Tags |\n")
	g.printf("| --- | ----- | ------------ | --------- | ----------- | ---- |\n")
	for _, n := range g.rev.Derived {
		attrs, err := review.ResolveAttributes(g.pool, n.UUID)
		if err != nil {
			g.opts.Logger.Warn("skipping part in table", "part", n.UUID, "err", err)
			continue
		}
		for _, attr := range pool.Attributes {
			r := attrs.Attrs[attr]
			g.printf("| %s", surroundIf("*", r.Value, r.Inherited))
		}
		g.printf("| %s\n", surroundIf("*", strings.Join(attrs.Tags, ", "), attrs.TagsInherit))
	}
	g.printf("\n")
}

// =============================================================================
// Details
// =============================================================================

func (g *Generator) detailsSection() {
	g.printf("# Details\n")
	g.partsDetails()
	g.entityDetails()
	g.unitDetails()
	g.packageDetails()
}

func (g *Generator) partsDetails() {
	g.printf("## Parts\n")
	for _, n := range g.rev.Derived {
		g.partDetail(n.UUID)
	}
}

func (g *Generator) partDetail(id uuid.UUID) {
	part, ok := g.pool.Parts[id]
	if !ok {
		return
	}
	attrs, err := review.ResolveAttributes(g.pool, id)
	if err != nil {
		g.opts.Logger.Warn("skipping part detail", "part", id, "err", err)
		return
	}

	g.printf("### %s\n", attrs.Attrs[pool.AttrMPN].Value)
	if attrs.Base != nil {
		baseName, _ := g.pool.Name(pool.Ref(pool.TypePart, attrs.Base.UUID))
		g.printf("Inherits from %s\n", baseName)
	}
	g.printf("| Attribute | Value |\n")
	g.printf("| --- | --- |\n")
	for _, attr := range pool.Attributes {
		r := attrs.Attrs[attr]
		g.printf("|%s | %s", attr, warnIfTrim(r.Value))
		switch attr {
		case pool.AttrManufacturer:
			g.printf(" (%d other parts)", g.pool.ManufacturerCount(r.Value))
		case pool.AttrDatasheet:
			if d := checks.CheckDatasheet(r.Value, g.opts.Domains); d != "" {
				g.printf(" (:warning: forbidden domain %s, use primary source)", d)
			}
		case pool.AttrValue:
			if checks.ValueEqualsMPN(map[pool.Attribute]string{
				pool.AttrMPN:   attrs.Attrs[pool.AttrMPN].Value,
				pool.AttrValue: r.Value,
			}) {
				g.printf(" (:warning: leave value blank if it's identical to MPN)")
			}
		}
		if r.Inherited {
			g.printf(" (inherited)")
		}
		g.printf("\n")
	}
	g.printf("|Tags | %s\n", strings.Join(attrs.Tags, ", "))
	g.printf("\n\n")

	if !part.HasBase() {
		g.padMapTable(part)
	}
}

// padMapTable prints the pad→(gate, pin) assignment of a non-derived
// part and flags pins no pad maps to.
func (g *Generator) padMapTable(part *pool.Part) {
	pkg := g.pool.Packages[part.Package]
	ent := g.pool.Entities[part.Entity]
	if pkg == nil || ent == nil {
		return
	}

	type gatePin struct{ gate, pin uuid.UUID }
	unmapped := make(map[gatePin]bool)
	for gateUU, gate := range ent.Gates {
		unit := g.pool.Units[gate.Unit]
		if unit == nil {
			continue
		}
		for pinUU := range unit.Pins {
			unmapped[gatePin{gateUU, pinUU}] = true
		}
	}

	pads := make([]*pool.Pad, 0, len(pkg.Pads))
	for _, pad := range pkg.Pads {
		pads = append(pads, pad)
	}
	slices.SortFunc(pads, func(a, b *pool.Pad) int {
		return natsort.Compare(a.Name, b.Name)
	})

	g.printf("| Pad | Gate | Pin |\n")
	g.printf("| --- | --- | --- |\n")
	for _, pad := range pads {
		g.printf("| %s | ", pad.Name)
		m, ok := part.PadMap[pad.UUID]
		if !ok {
			g.printf(" - | - |\n")
			continue
		}
		gateName, pinName := "-", "-"
		if gate, ok := ent.Gates[m.Gate]; ok {
			gateName = gate.Name
			if unit := g.pool.Units[gate.Unit]; unit != nil {
				if pin, ok := unit.Pins[m.Pin]; ok {
					pinName = pin.PrimaryName
				}
			}
		}
		g.printf("%s | %s |\n", gateName, pinName)
		delete(unmapped, gatePin{m.Gate, m.Pin})
	}
	g.printf("\n")

	if len(unmapped) == 0 {
		return
	}
	var names []string
	for gp := range unmapped {
		gate, ok := ent.Gates[gp.gate]
		if !ok {
			continue
		}
		unit := g.pool.Units[gate.Unit]
		if unit == nil {
			continue
		}
		pin, ok := unit.Pins[gp.pin]
		if !ok {
			continue
		}
		names = append(names, gate.Name+"."+pin.PrimaryName)
	}
	slices.SortFunc(names, natsort.Compare)
	g.printf(":x: unmapped pins:\n")
	for _, name := range names {
		g.printf(" - %s\n", name)
	}
}

func (g *Generator) entityDetails() {
	g.printf("## Entities\n")
	for _, it := range g.changedOfType(pool.TypeEntity) {
		ent, ok := g.pool.Entities[it.Ref.UUID]
		if !ok {
			continue
		}
		g.printf("### %s\n", ent.Name)
		g.printf("| Attribute | Value |\n")
		g.printf("| --- | --- |\n")
		g.printf("|Manufacturer | %s (%d other parts)\n",
			ent.Manufacturer, g.pool.ManufacturerCount(ent.Manufacturer))
		g.printf("|Prefix | %s\n", ent.Prefix)
		if len(ent.Tags) > 0 {
			g.printf("|Tags | %s\n", strings.Join(ent.Tags, ", "))
		}
		g.printf("\n")

		if len(ent.Gates) == 0 {
			g.printf(":warning: Entity has no gates!\n")
			continue
		}
		gates := make([]*pool.Gate, 0, len(ent.Gates))
		for _, gate := range ent.Gates {
			gates = append(gates, gate)
		}
		slices.SortFunc(gates, func(a, b *pool.Gate) int {
			return natsort.Compare(a.Name, b.Name)
		})
		g.printf("| Gate | Suffix | Swap group | Unit |\n")
		g.printf("| --- | --- | --- | --- |\n")
		for _, gate := range gates {
			unitName, _ := g.pool.Name(pool.Ref(pool.TypeUnit, gate.Unit))
			g.printf("|%s | %s | %d | %s\n", gate.Name, gate.Suffix, gate.SwapGroup, unitName)
		}
	}
}

func (g *Generator) unitDetails() {
	g.printf("## Units\n")
	for _, it := range g.changedOfType(pool.TypeUnit) {
		unit, ok := g.pool.Units[it.Ref.UUID]
		if !ok {
			continue
		}
		g.printf("### %s\n", unit.Name)
		g.printf("| Attribute | Value |\n")
		g.printf("| --- | --- |\n")
		g.printf("|Manufacturer | %s (%d other parts)\n",
			unit.Manufacturer, g.pool.ManufacturerCount(unit.Manufacturer))
		g.printf("\n")

		if len(unit.Pins) == 0 {
			g.printf(":x: Unit has no pins!\n")
		} else {
			pins := make([]*pool.Pin, 0, len(unit.Pins))
			for _, pin := range unit.Pins {
				pins = append(pins, pin)
			}
			slices.SortFunc(pins, func(a, b *pool.Pin) int {
				return natsort.Compare(a.PrimaryName, b.PrimaryName)
			})
			g.printf("| Pin | Direction | Alternate names |\n")
			g.printf("| --- | --- | --- |\n")
			for _, pin := range pins {
				g.printf("|%s | %s | %s\n",
					pin.PrimaryName, pin.Direction, strings.Join(pin.AltNames, ", "))
			}
		}

		g.unitSymbols(unit.UUID)
	}
}

func (g *Generator) unitSymbols(unit uuid.UUID) {
	syms := g.pool.SymbolsByUnit[unit]
	if len(syms) == 0 {
		g.printf(":x: Unit has no symbols!\n")
		return
	}
	sorted := slices.Clone(syms)
	slices.SortFunc(sorted, func(a, b *pool.Symbol) int {
		if c := natsort.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return slices.Compare(a.UUID[:], b.UUID[:])
	})
	for _, sym := range sorted {
		g.printf("#### Symbol: %s\n", sym.Name)
		imgs, err := render.Symbol(sym, g.opts.Render)
		if err != nil {
			g.opts.Logger.Warn("symbol render failed", "symbol", sym.UUID, "err", err)
			continue
		}
		if !sym.TextPlacements {
			g.images = append(g.images, imgs...)
			g.printf("![Symbol](%s%s)\n", g.opts.ImagesPrefix, imgs[0].Name)
			continue
		}
		for i, o := range render.Orientations {
			g.printf("%s\n", o.Label())
			g.images = append(g.images, imgs[i])
			g.printf("![Symbol](%s%s)\n\n", g.opts.ImagesPrefix, imgs[i].Name)
		}
	}
}

func (g *Generator) packageDetails() {
	g.printf("## Packages\n")
	for _, it := range g.changedOfType(pool.TypePackage) {
		pkg, ok := g.pool.Packages[it.Ref.UUID]
		if !ok {
			continue
		}
		g.printf("### %s\n", pkg.Name)
		g.printf("| Attribute | Value |\n")
		g.printf("| --- | --- |\n")
		g.printf("|Manufacturer | %s (%d other parts)\n",
			pkg.Manufacturer, g.pool.ManufacturerCount(pkg.Manufacturer))
		if len(pkg.Tags) > 0 {
			g.printf("|Tags | %s\n", strings.Join(pkg.Tags, ", "))
		}
		g.printf("\n")

		g.packageChecks(pkg)

		img, err := render.Package(pkg, g.opts.Render)
		if err != nil {
			g.opts.Logger.Warn("package render failed", "package", pkg.UUID, "err", err)
			continue
		}
		g.images = append(g.images, img)
		g.printf("\n![Package](%s%s)\n", g.opts.ImagesPrefix, img.Name)
	}
}

func (g *Generator) packageChecks(pkg *pool.Package) {
	r := checks.CheckPackage(pkg)
	if r.Level == checks.Pass {
		g.printf(":heavy_check_mark: Checks passed\n\n")
		return
	}
	g.printf("Checks didn't pass\n")
	for _, e := range r.Errors {
		switch e.Level {
		case checks.Warn:
			g.printf(" - :warning: %s\n", e.Comment)
		case checks.Fail:
			g.printf(" - :x: %s\n", e.Comment)
		default:
			g.printf(" - %s %s\n", e.Level, e.Comment)
		}
	}
	g.printf("\n")
}

// =============================================================================
// Warnings
// =============================================================================

func (g *Generator) warningsSection() {
	warnings := append(slices.Clone(g.pool.Warnings), g.rev.Closure.Warnings...)
	if len(warnings) == 0 {
		return
	}
	g.printf("# Warnings\n")
	for _, w := range warnings {
		g.printf(" - :warning: %s\n", w)
	}
	g.printf("\n")
}

// changedOfType returns the change items of one record type, each
// UUID once, in item order.
func (g *Generator) changedOfType(t pool.RecordType) []review.Item {
	seen := make(map[uuid.UUID]bool)
	var out []review.Item
	for _, it := range g.rev.Resolution.Items {
		if it.Ref.Type == t && !seen[it.Ref.UUID] {
			seen[it.Ref.UUID] = true
			out = append(out, it)
		}
	}
	return out
}
