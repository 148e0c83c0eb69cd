package graph

import (
	"strings"
	"testing"

	"github.com/enclens/enclens/pkg/encodingapi"
	apperr "github.com/enclens/enclens/pkg/errors"
)

func groupedGraph() *Graph {
	g := New()
	g.AddNode(Node{ID: "s", Title: "Stream", Category: encodingapi.CategoryStream})
	g.AddNode(Node{ID: "c", Title: "Codec", Category: encodingapi.CategoryCodec})
	g.AddNode(Node{ID: "m", Title: "Muxing", Category: encodingapi.CategoryMuxing})
	g.AddNode(Node{ID: "sp", Title: "Sprite", Category: encodingapi.CategorySprite})
	g.AddEdge("s", "c")
	g.AddEdge("s", "m")
	return g
}

func TestGroupSelectionCoversCategorySet(t *testing.T) {
	opts, err := OptionsForGroups([]string{"streams"})
	if err != nil {
		t.Fatalf("OptionsForGroups: %v", err)
	}

	dot := ToDOT(groupedGraph(), opts)
	if !strings.Contains(dot, `"s"`) || !strings.Contains(dot, `"c"`) {
		t.Errorf("streams group should keep stream and codec nodes:\n%s", dot)
	}
	if strings.Contains(dot, `"m"`) {
		t.Errorf("muxing node should be hidden:\n%s", dot)
	}
}

func TestDefaultGroupsHidePreviews(t *testing.T) {
	opts, err := OptionsForGroups(nil)
	if err != nil {
		t.Fatalf("OptionsForGroups: %v", err)
	}

	dot := ToDOT(groupedGraph(), opts)
	for _, id := range []string{`"s"`, `"c"`, `"m"`} {
		if !strings.Contains(dot, id) {
			t.Errorf("default selection should keep %s:\n%s", id, dot)
		}
	}
	if strings.Contains(dot, `"sp"`) {
		t.Errorf("sprite node should be off by default:\n%s", dot)
	}
}

func TestOptionsForGroupsUnknownName(t *testing.T) {
	_, err := OptionsForGroups([]string{"streams", "bogus"})
	if !apperr.Is(err, apperr.ErrCodeInvalidCategory) {
		t.Errorf("err = %v, want INVALID_CATEGORY", err)
	}
}

func TestOptionsForGroupsSkipsBlanks(t *testing.T) {
	opts, err := OptionsForGroups([]string{" encoding ", ""})
	if err != nil {
		t.Fatalf("OptionsForGroups: %v", err)
	}
	want := []encodingapi.Category{encodingapi.CategoryEncoding}
	if len(opts.Include) != len(want) || opts.Include[0] != want[0] {
		t.Errorf("Include = %v, want %v", opts.Include, want)
	}
}

func TestGroupNamesStable(t *testing.T) {
	names := GroupNames()
	if len(names) == 0 || names[0] != "encoding" {
		t.Fatalf("GroupNames = %v", names)
	}
	seen := make(map[string]bool)
	for _, n := range names {
		if seen[n] {
			t.Errorf("duplicate group name %q", n)
		}
		seen[n] = true
	}
}
