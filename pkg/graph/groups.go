package graph

import (
	"strings"

	"github.com/enclens/enclens/pkg/encodingapi"
	apperr "github.com/enclens/enclens/pkg/errors"
)

// DisplayGroup is one checkbox-style toggle over node categories. Exports
// select groups rather than raw categories, so related nodes appear and
// disappear together: the "streams" group covers stream nodes and their
// codec configurations, "muxings" covers muxings and their DRM configs.
type DisplayGroup struct {
	Name       string
	Categories []encodingapi.Category
	DefaultOn  bool
}

var displayGroups = []DisplayGroup{
	{Name: "encoding", DefaultOn: true, Categories: []encodingapi.Category{
		encodingapi.CategoryEncoding,
	}},
	{Name: "streams", DefaultOn: true, Categories: []encodingapi.Category{
		encodingapi.CategoryStream, encodingapi.CategoryCodec,
	}},
	{Name: "inputs", DefaultOn: true, Categories: []encodingapi.Category{
		encodingapi.CategoryInput, encodingapi.CategoryInputStream, encodingapi.CategoryInputFile,
	}},
	{Name: "filters", DefaultOn: true, Categories: []encodingapi.Category{
		encodingapi.CategoryFilter,
	}},
	{Name: "muxings", DefaultOn: true, Categories: []encodingapi.Category{
		encodingapi.CategoryMuxing, encodingapi.CategoryDRM,
	}},
	{Name: "outputs", DefaultOn: true, Categories: []encodingapi.Category{
		encodingapi.CategoryOutput, encodingapi.CategoryOutputFile,
	}},
	{Name: "manifests", DefaultOn: true, Categories: []encodingapi.Category{
		encodingapi.CategoryManifest,
	}},
	{Name: "previews", DefaultOn: false, Categories: []encodingapi.Category{
		encodingapi.CategorySprite, encodingapi.CategoryThumbnail,
	}},
}

// DisplayGroups returns the fixed group table in display order.
func DisplayGroups() []DisplayGroup {
	groups := make([]DisplayGroup, len(displayGroups))
	copy(groups, displayGroups)
	return groups
}

// GroupNames lists the selectable group names in display order.
func GroupNames() []string {
	names := make([]string, len(displayGroups))
	for i, g := range displayGroups {
		names[i] = g.Name
	}
	return names
}

// OptionsForGroups resolves group names into export options. An empty
// selection enables every group flagged visible by default; an unknown
// name fails so a typo does not silently blank half the graph.
func OptionsForGroups(names []string) (ExportOptions, error) {
	var opts ExportOptions
	selected := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		selected++
		group, ok := groupByName(name)
		if !ok {
			return ExportOptions{}, apperr.New(apperr.ErrCodeInvalidCategory,
				"unknown display group %q - available: %s", name, strings.Join(GroupNames(), ", "))
		}
		opts.Include = append(opts.Include, group.Categories...)
	}

	if selected == 0 {
		for _, g := range displayGroups {
			if g.DefaultOn {
				opts.Include = append(opts.Include, g.Categories...)
			}
		}
	}
	return opts, nil
}

func groupByName(name string) (DisplayGroup, bool) {
	for _, g := range displayGroups {
		if g.Name == name {
			return g, true
		}
	}
	return DisplayGroup{}, false
}
