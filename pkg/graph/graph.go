// Package graph builds the resource graph of an encoding and exports it as
// Graphviz DOT or rendered SVG. Nodes are keyed by resource id; adding a
// node with an existing id replaces it, so walkers can emit the same
// resource from multiple paths without bookkeeping.
package graph

import (
	"github.com/enclens/enclens/pkg/encodingapi"
	apperr "github.com/enclens/enclens/pkg/errors"
)

// Node is one resource in the graph.
type Node struct {
	ID       string               `json:"id"`
	Title    string               `json:"title"`           // resource object name, bold in labels
	Label    string               `json:"label,omitempty"` // detail line
	Category encodingapi.Category `json:"category"`
	Cluster  string               `json:"cluster,omitempty"` // subgraph grouping
	Mode     string               `json:"mode,omitempty"`    // stream mode, drives shape
	Ignored  bool                 `json:"ignored,omitempty"`
}

// Edge connects two nodes by id.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is a directed resource graph. Node and edge iteration order is
// insertion order, so exports are deterministic.
type Graph struct {
	nodes     map[string]*Node
	nodeOrder []string
	edges     map[string]Edge
	edgeOrder []string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[string]Edge),
	}
}

// AddNode inserts or replaces a node. The last write for an id wins; the
// node keeps its original position in iteration order.
func (g *Graph) AddNode(n Node) {
	if _, exists := g.nodes[n.ID]; !exists {
		g.nodeOrder = append(g.nodeOrder, n.ID)
	}
	copied := n
	g.nodes[n.ID] = &copied
}

// AddEdge connects two nodes. Edges are deduplicated by endpoint pair.
// Both endpoints must be non-empty; a missing id here means a walker bug
// upstream, not an absent resource.
func (g *Graph) AddEdge(from, to string) error {
	if from == "" || to == "" {
		return apperr.New(apperr.ErrCodeInternal, "edge with empty endpoint (%q -> %q)", from, to)
	}
	key := from + "_to_" + to
	if _, exists := g.edges[key]; !exists {
		g.edgeOrder = append(g.edgeOrder, key)
	}
	g.edges[key] = Edge{From: from, To: to}
	return nil
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edgeOrder))
	for _, key := range g.edgeOrder {
		out = append(out, g.edges[key])
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }
