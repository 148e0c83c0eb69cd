package graph

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/enclens/enclens/pkg/encodingapi"
)

// ExportOptions configures DOT export. Callers normally build one with
// [OptionsForGroups] rather than listing categories directly.
type ExportOptions struct {
	// Include limits the export to the listed categories. Empty means all.
	// Edges with a hidden endpoint are dropped along with the node.
	Include []encodingapi.Category
}

func (o ExportOptions) visible(cat encodingapi.Category) bool {
	if len(o.Include) == 0 {
		return true
	}
	for _, c := range o.Include {
		if c == cat {
			return true
		}
	}
	return false
}

// ToDOT serializes the graph as a Graphviz DOT document. Nodes sharing a
// cluster name are grouped into a subgraph when the cluster has more than
// one member. Edges referencing nodes the graph never received are dropped
// here rather than failing the export; a branch walker may have died before
// emitting its node.
func ToDOT(g *Graph, opts ExportOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=\"LR\";\n")
	buf.WriteString("  node [fontsize=8, fontname=Arial];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")

	visible := make(map[string]bool)
	clusters := make(map[string][]*Node)
	var clusterOrder []string
	for _, n := range g.Nodes() {
		if !opts.visible(n.Category) {
			continue
		}
		visible[n.ID] = true
		if _, seen := clusters[n.Cluster]; !seen {
			clusterOrder = append(clusterOrder, n.Cluster)
		}
		clusters[n.Cluster] = append(clusters[n.Cluster], n)
	}

	for _, name := range clusterOrder {
		nodes := clusters[name]
		grouped := name != "" && len(nodes) > 1
		if grouped {
			fmt.Fprintf(&buf, "  subgraph \"cluster_%s\" {\n", name)
		}
		for _, n := range nodes {
			writeNode(&buf, n)
		}
		if grouped {
			buf.WriteString("  }\n")
		}
	}

	for _, e := range g.Edges() {
		if !visible[e.From] || !visible[e.To] {
			continue
		}
		attrs := edgeAttrs(g, e)
		fmt.Fprintf(&buf, "  %q -> %q%s;\n", e.From, e.To, fmtAttrs(attrs))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, n *Node) {
	attrs := nodeAttrs(n)
	label := "<B>" + html.EscapeString(n.Title) + "</B><br/>"
	if n.Label != "" {
		label += html.EscapeString(n.Label) + "<br/>"
	}
	label += html.EscapeString(n.ID)

	fmt.Fprintf(buf, "  %q [label=<%s>%s];\n", n.ID, label, fmtAttrs(attrs))
}

func fmtAttrs(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, attrs[k]))
	}
	return ", " + strings.Join(parts, ", ")
}

// RenderSVG renders the graph to SVG via Graphviz.
func RenderSVG(ctx context.Context, g *Graph, opts ExportOptions) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(ToDOT(g, opts)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
