package rendition

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/enclens/enclens/pkg/encodingapi"
)

// FieldDef controls how one category's fields are collected and rendered.
// Pinned fields come first in display order, ignored fields are never
// shown, and highlighted fields are flagged for emphasis.
type FieldDef struct {
	Pin       []string
	Ignore    []string
	Highlight []string
	Transform map[string]func(any) string
}

// shared rules applied to every category.
var allFieldsDef = FieldDef{
	Ignore:    []string{"createdAt", "modifiedAt", "description", "customData"},
	Highlight: []string{"ignoredBy"},
	Transform: map[string]func(any) string{
		"bitrate":    groupedNumber,
		"maxBitrate": groupedNumber,
		"minBitrate": groupedNumber,
		"avgBitrate": groupedNumber,
		"ignoredBy":  ignoredByString,
	},
}

var fieldDefs = map[string]FieldDef{
	"muxing": {
		Pin:    []string{"id", "type", "filename"},
		Ignore: []string{"streams", "outputs"},
	},
	"codec": {
		Pin: []string{
			"id", "mediaType", "type", "width", "height", "presetConfiguration",
			"encodingMode", "profile", "level", "rate", "bitrate", "minBitrate", "maxBitrate",
		},
	},
	"stream": {
		Pin: []string{"id"},
		Transform: map[string]func(any) string{
			"conditions":      conditionString,
			"metadata":        metadataLanguage,
			"appliedSettings": appliedSettingsString,
			"inputStreams":    inputStreamsString,
		},
	},
	"encoding": {
		Ignore: []string{"name", "cloudRegion", "selectedCloudRegion"},
	},
}

// Defs returns the merged field definition for a category: the category's
// own rules plus the shared ones. Unknown categories get an empty def.
func Defs(category string) FieldDef {
	def := fieldDefs[category]
	merged := FieldDef{
		Pin:       def.Pin,
		Ignore:    append(append([]string{}, def.Ignore...), allFieldsDef.Ignore...),
		Highlight: append(append([]string{}, def.Highlight...), allFieldsDef.Highlight...),
		Transform: map[string]func(any) string{},
	}
	for k, fn := range allFieldsDef.Transform {
		merged.Transform[k] = fn
	}
	for k, fn := range def.Transform {
		merged.Transform[k] = fn
	}
	return merged
}

// ValidCategory reports whether the category name is known.
func ValidCategory(category string) bool {
	_, ok := fieldDefs[category]
	return ok
}

// CollectFields returns the display-ordered field names of one category
// across a set of renditions: pinned fields first, then every other field
// any rendition carries, alphabetically.
func CollectFields(rends []*Rendition, category string) []string {
	def := Defs(category)
	seen := make(map[string]bool, len(def.Pin))
	fields := make([]string, 0, len(def.Pin))
	for _, p := range def.Pin {
		seen[p] = true
		fields = append(fields, p)
	}

	var extra []string
	for _, r := range rends {
		for name := range r.Fields(category) {
			if !seen[name] {
				seen[name] = true
				extra = append(extra, name)
			}
		}
	}
	sort.Strings(extra)
	return append(fields, extra...)
}

// Render formats a field value for display, applying the category's
// transform when one is registered. Inapplicable values render empty.
func Render(category, field string, val any, ok bool) string {
	if !ok || val == nil {
		return ""
	}
	if fn, found := Defs(category).Transform[field]; found {
		return fn(val)
	}
	return plainString(val)
}

// Highlighted reports whether a field should be emphasized.
func Highlighted(category, field string) bool {
	return slices.Contains(Defs(category).Highlight, field)
}

// Ignored reports whether a field is excluded from display.
func Ignored(category, field string) bool {
	return slices.Contains(Defs(category).Ignore, field)
}

func plainString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.RawMessage:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// groupedNumber renders an integer with thousands separators.
func groupedNumber(val any) string {
	var n int64
	switch v := val.(type) {
	case int64:
		n = v
	case int:
		n = int64(v)
	case float64:
		n = int64(v)
	default:
		return plainString(val)
	}
	if n == 0 {
		return "N/A"
	}

	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	if neg {
		return "-" + strings.Join(parts, ",")
	}
	return strings.Join(parts, ",")
}

func ignoredByString(val any) string {
	entries, ok := val.([]encodingapi.IgnoredBy)
	if !ok {
		return plainString(val)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.IgnoredBy
	}
	return "(" + strings.Join(names, " + ") + ")"
}

func conditionString(val any) string {
	raw, ok := val.(json.RawMessage)
	if !ok {
		return plainString(val)
	}
	var c condition
	if err := json.Unmarshal(raw, &c); err != nil || c.Attribute == "" {
		return string(raw)
	}
	return c.Attribute + c.Operator + strings.Trim(string(c.Value), `"`)
}

func metadataLanguage(val any) string {
	if m, ok := val.(*encodingapi.StreamMetadata); ok {
		return m.Language
	}
	return plainString(val)
}

func appliedSettingsString(val any) string {
	if s, ok := val.(*encodingapi.AppliedStreamSettings); ok {
		return fmt.Sprintf("(%d x %d)", s.Width, s.Height)
	}
	return plainString(val)
}

// inputStreamsString shows the first input reference of a stream, either
// the derived input-stream id or the raw input path.
func inputStreamsString(val any) string {
	inputs, ok := val.([]encodingapi.StreamInput)
	if !ok || len(inputs) == 0 {
		return plainString(val)
	}
	if inputs[0].InputStreamID != "" {
		return inputs[0].InputStreamID
	}
	return inputs[0].InputPath
}
