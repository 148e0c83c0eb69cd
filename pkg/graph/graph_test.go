package graph

import (
	"strings"
	"testing"

	"github.com/enclens/enclens/pkg/encodingapi"
	apperr "github.com/enclens/enclens/pkg/errors"
)

func TestAddNodeUpsert(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a", Title: "First", Category: encodingapi.CategoryStream})
	g.AddNode(Node{ID: "b", Title: "Other", Category: encodingapi.CategoryMuxing})
	g.AddNode(Node{ID: "a", Title: "Second", Category: encodingapi.CategoryStream})

	if g.NodeCount() != 2 {
		t.Fatalf("NodeCount = %d, want 2", g.NodeCount())
	}
	nodes := g.Nodes()
	if nodes[0].ID != "a" || nodes[0].Title != "Second" {
		t.Errorf("nodes[0] = %+v, want replaced node in original position", nodes[0])
	}
}

func TestAddEdgeValidation(t *testing.T) {
	g := New()
	if err := g.AddEdge("", "b"); !apperr.Is(err, apperr.ErrCodeInternal) {
		t.Errorf("AddEdge with empty from = %v, want INTERNAL_ERROR", err)
	}
	if err := g.AddEdge("a", ""); err == nil {
		t.Error("AddEdge with empty to should fail")
	}
}

func TestAddEdgeDeduplicates(t *testing.T) {
	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")

	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2 (a->b deduplicated, b->a distinct)", g.EdgeCount())
	}
}

func TestToDOTDropsDanglingEdges(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a", Title: "A", Category: encodingapi.CategoryStream})
	g.AddEdge("a", "never-added")

	dot := ToDOT(g, ExportOptions{})
	if strings.Contains(dot, "never-added") {
		t.Errorf("dangling edge survived export:\n%s", dot)
	}
}

func TestToDOTCategoryFilter(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "s", Title: "Stream", Category: encodingapi.CategoryStream})
	g.AddNode(Node{ID: "m", Title: "Muxing", Category: encodingapi.CategoryMuxing})
	g.AddEdge("s", "m")

	dot := ToDOT(g, ExportOptions{Include: []encodingapi.Category{encodingapi.CategoryStream}})
	if !strings.Contains(dot, `"s"`) {
		t.Error("included node missing")
	}
	if strings.Contains(dot, `"m"`) {
		t.Error("excluded node present")
	}
	if strings.Contains(dot, "->") {
		t.Error("edge to excluded node should be dropped")
	}
}

func TestToDOTStyling(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "f", Title: "File", Category: encodingapi.CategoryOutputFile})
	g.AddNode(Node{
		ID:       "pt",
		Title:    "Stream",
		Category: encodingapi.CategoryStream,
		Mode:     encodingapi.StreamModePerTitleTemplate,
	})
	g.AddNode(Node{ID: "ig", Title: "Muxing", Category: encodingapi.CategoryMuxing, Ignored: true})

	dot := ToDOT(g, ExportOptions{})
	if !strings.Contains(dot, `shape="note"`) {
		t.Error("file nodes should use the note shape")
	}
	if !strings.Contains(dot, `shape="component"`) {
		t.Error("per-title template streams should use the component shape")
	}
	if !strings.Contains(dot, "filled,dashed") {
		t.Error("ignored nodes should be dashed")
	}
	if !strings.Contains(dot, ";0.5:#D3D3D3") {
		t.Error("ignored nodes should fade to grey")
	}
}

func TestToDOTClusters(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a", Title: "A", Category: encodingapi.CategoryStream, Cluster: "grp"})
	g.AddNode(Node{ID: "b", Title: "B", Category: encodingapi.CategoryStream, Cluster: "grp"})
	g.AddNode(Node{ID: "c", Title: "C", Category: encodingapi.CategoryStream, Cluster: "solo"})

	dot := ToDOT(g, ExportOptions{})
	if !strings.Contains(dot, `subgraph "cluster_grp"`) {
		t.Error("multi-node cluster should become a subgraph")
	}
	if strings.Contains(dot, `subgraph "cluster_solo"`) {
		t.Error("single-node cluster should not become a subgraph")
	}
}

func TestEdgeColorFollowsTarget(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "s", Title: "Stream", Category: encodingapi.CategoryStream})
	g.AddNode(Node{ID: "d", Title: "Drm", Category: encodingapi.CategoryDRM})
	g.AddEdge("s", "d")

	dot := ToDOT(g, ExportOptions{})
	if !strings.Contains(dot, `color="#F89C73"`) {
		t.Errorf("edge should take DRM target color:\n%s", dot)
	}
}

func TestLighten(t *testing.T) {
	if got := lighten("#000000", 0.2); got != "#333333" {
		t.Errorf("lighten(#000000) = %q, want #333333", got)
	}
	if got := lighten("not-a-color", 0.2); got != "not-a-color" {
		t.Errorf("unparseable colors should pass through, got %q", got)
	}
}
