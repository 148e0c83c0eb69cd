package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/enclens/enclens/pkg/encodingapi"
)

// categoryColors is the fill palette keyed by node category. Categories not
// listed here (files, sprites, thumbnails) fall back to white.
var categoryColors = map[encodingapi.Category]string{
	encodingapi.CategoryEncoding:    "#67C5CB",
	encodingapi.CategoryStream:      "#F7CE71",
	encodingapi.CategoryCodec:       "#7FAC58",
	encodingapi.CategoryInput:       "#B3B3B3",
	encodingapi.CategoryInputStream: "#9EBAF3",
	encodingapi.CategoryFilter:      "#8BE0A4",
	encodingapi.CategoryMuxing:      "#DCB1F2",
	encodingapi.CategoryOutput:      "#B3B3B3",
	encodingapi.CategoryDRM:         "#F89C73",
	encodingapi.CategoryManifest:    "#C9DB73",
}

// CategoryColor returns the fill color for a category, or white.
func CategoryColor(cat encodingapi.Category) string {
	if c, ok := categoryColors[cat]; ok {
		return c
	}
	return "white"
}

// nodeAttrs computes the DOT attributes for a node. The rules are fixed:
// file nodes use the note shape, per-title template streams use the
// component shape with a lightened fill, and ignored resources get a dashed
// outline with a grey gradient.
func nodeAttrs(n *Node) map[string]string {
	attrs := map[string]string{
		"shape": "box",
		"style": "filled",
	}
	attrs["fillcolor"] = CategoryColor(n.Category)

	if n.Category == encodingapi.CategoryInputFile || n.Category == encodingapi.CategoryOutputFile {
		attrs["shape"] = "note"
	}
	if strings.HasPrefix(n.Mode, encodingapi.StreamModePerTitleTemplate) {
		attrs["shape"] = "component"
		attrs["fillcolor"] = lighten(attrs["fillcolor"], 0.2)
	}
	if n.Ignored {
		attrs["style"] += ",dashed"
		attrs["fillcolor"] += ";0.5:#D3D3D3"
		attrs["gradientangle"] = "272"
	}
	return attrs
}

// edgeAttrs computes the DOT attributes for an edge. Edges take the color
// of their target node's category.
func edgeAttrs(g *Graph, e Edge) map[string]string {
	attrs := map[string]string{}
	if to := g.Node(e.To); to != nil {
		if c, ok := categoryColors[to.Category]; ok {
			attrs["color"] = c
		}
	}
	return attrs
}

// lighten moves a #rrggbb color toward white by the given fraction. Colors
// that do not parse are returned unchanged.
func lighten(hex string, amount float64) string {
	if len(hex) != 7 || hex[0] != '#' {
		return hex
	}
	var rgb [3]uint8
	for i := range rgb {
		v, err := strconv.ParseUint(hex[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return hex
		}
		rgb[i] = uint8(float64(v) + (255-float64(v))*amount)
	}
	return fmt.Sprintf("#%02X%02X%02X", rgb[0], rgb[1], rgb[2])
}
