// Package render produces visual output for linkage definitions and sweep
// results: a Graphviz topology diagram of the constraint structure, and a
// hand-rolled SVG chart of the sweep (pose overlay, travel and leverage
// curves).
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/kinetools/linkrate/pkg/linkage"
)

// ToDOT converts a linkage definition to Graphviz DOT format, one node per
// point and one undirected edge per rigid segment. Pinned points render as
// filled grey boxes, the rear axle is highlighted, and the shock edge is
// drawn dashed in red with its stroke as the label.
func ToDOT(l *linkage.Linkage) string {
	var buf bytes.Buffer
	buf.WriteString("graph linkage {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12, fixedsize=false];\n")
	buf.WriteString("\n")

	for _, p := range l.Points {
		fmt.Fprintf(&buf, "  %q [%s];\n", p.ID, strings.Join(pointAttrs(p), ", "))
	}

	buf.WriteString("\n")
	for i := range l.Bodies {
		body := &l.Bodies[i]
		for _, pair := range segmentPairs(body) {
			fmt.Fprintf(&buf, "  %q -- %q [%s];\n", pair[0], pair[1], strings.Join(edgeAttrs(body), ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// pointAttrs builds the DOT attribute list for one point node. The node is
// pinned at its traced coordinate ("!" suffix) so the diagram matches the
// photo layout; DOT positions use inches, hence the scale-down, and the y
// axis is flipped because image coordinates grow downward.
func pointAttrs(p linkage.Point) []string {
	label := p.ID
	if p.Name != "" {
		label = p.Name
	}
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf(`pos="%.3f,%.3f!"`, p.X/72, -p.Y/72),
	}
	switch {
	case p.Kind.Pinned():
		attrs = append(attrs, "shape=box", "fillcolor=lightgrey")
	case p.Kind == linkage.PointRearAxle:
		attrs = append(attrs, "fillcolor=lightblue", "penwidth=2")
	}
	return attrs
}

// edgeAttrs builds the DOT attribute list for one body's segments.
func edgeAttrs(body *linkage.Body) []string {
	switch body.Kind {
	case linkage.BodyShock:
		attrs := []string{"color=red", "style=dashed", "penwidth=2"}
		if body.Stroke != nil {
			attrs = append(attrs, fmt.Sprintf("label=\"stroke %.0f\"", *body.Stroke))
		}
		return attrs
	case linkage.BodyFixed:
		return []string{"color=grey", "penwidth=3"}
	default:
		return []string{"color=black", "penwidth=2"}
	}
}

// segmentPairs lists a body's consecutive point-id pairs, including the
// wrap-around pair for closed chains, mirroring how the compiler splits
// bodies into edges.
func segmentPairs(body *linkage.Body) [][2]string {
	pids := body.PointIDs
	if len(pids) < 2 {
		return nil
	}
	pairs := make([][2]string, 0, len(pids))
	for i := 0; i+1 < len(pids); i++ {
		pairs = append(pairs, [2]string{pids[i], pids[i+1]})
	}
	if body.Closed && len(pids) > 2 {
		pairs = append(pairs, [2]string{pids[len(pids)-1], pids[0]})
	}
	return pairs
}

// TopologySVG renders the linkage topology diagram to SVG using Graphviz.
func TopologySVG(ctx context.Context, l *linkage.Linkage) ([]byte, error) {
	return renderDOT(ctx, ToDOT(l), graphviz.SVG)
}

// TopologyPNG renders the linkage topology diagram to PNG using Graphviz.
func TopologyPNG(ctx context.Context, l *linkage.Linkage) ([]byte, error) {
	return renderDOT(ctx, ToDOT(l), graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
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
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
