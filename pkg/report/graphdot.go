package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/poolreview/poolreview/pkg/pool"
	"github.com/poolreview/poolreview/pkg/render"
	"github.com/poolreview/poolreview/pkg/review"
)

// ToDOT converts the dependency closure of one root into Graphviz DOT.
// Edges come from the pool's dependency relation plus the synthesized
// unit→symbol and package→model links; changed records get a
// highlighted fill so the reviewed delta stands out.
func ToDOT(p *pool.Pool, c *review.Closure, root pool.RecordRef) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	nodeID := func(n review.Node) string {
		if n.Ref.Type == pool.TypeModel {
			return "model_" + n.Name
		}
		return n.Ref.Type.String() + "_" + n.Ref.UUID.String()
	}

	inRoot := make(map[pool.RecordRef]review.Node)
	for _, n := range c.Nodes {
		if n.Root != root {
			continue
		}
		label := n.Ref.Type.Display() + "\n" + n.Name
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if n.InChange {
			attrs = append(attrs, "fillcolor=lightyellow")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(n), strings.Join(attrs, ", "))
		if n.Ref.Type != pool.TypeModel {
			inRoot[n.Ref] = n
		}

		// Synthesized symbol rows link back to their unit; model rows
		// are linked from the package side below.
		if n.Ref.Type == pool.TypeSymbol {
			if sym, ok := p.Symbols[n.Ref.UUID]; ok {
				fmt.Fprintf(&buf, "  %q -> %q;\n",
					pool.TypeUnit.String()+"_"+sym.Unit.String(), nodeID(n))
			}
		}
	}

	buf.WriteString("\n")
	for _, e := range p.Edges {
		if _, ok := inRoot[e.From]; !ok {
			continue
		}
		if _, ok := inRoot[e.To]; !ok {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n",
			e.From.Type.String()+"_"+e.From.UUID.String(),
			e.To.Type.String()+"_"+e.To.UUID.String())
	}
	for _, n := range c.Nodes {
		if n.Root != root || n.Ref.Type != pool.TypePackage {
			continue
		}
		for _, path := range p.ModelPaths(n.Ref.UUID) {
			if c.ContainsName(pool.TypeModel, path) {
				fmt.Fprintf(&buf, "  %q -> %q;\n",
					n.Ref.Type.String()+"_"+n.Ref.UUID.String(), "model_"+path)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG bytes.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// graphSection renders one dependency diagram per closure root and
// links them. A graphviz failure skips the diagram, not the report.
func (g *Generator) graphSection() {
	if len(g.rev.Closure.Roots) == 0 {
		return
	}
	g.printf("# Dependency overview\n")
	for _, root := range g.rev.Closure.Roots {
		dot := ToDOT(g.pool, g.rev.Closure, root)
		svg, err := RenderSVG(context.Background(), dot)
		if err != nil {
			g.opts.Logger.Warn("graph render failed", "root", root, "err", err)
			continue
		}
		name := fmt.Sprintf("deps_%s.svg", root.UUID)
		g.images = append(g.images, render.Image{Name: name, Data: svg})
		rootName, _ := g.pool.Name(root)
		g.printf("![Dependencies of %s](%s%s)\n\n", rootName, g.opts.ImagesPrefix, name)
	}
}
