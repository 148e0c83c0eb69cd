package rendition

import (
	"math"
	"sort"
	"strings"

	apperr "github.com/enclens/enclens/pkg/errors"
)

// Set collects renditions across one or more encodings.
type Set struct {
	renditions []*Rendition
}

// NewSet creates an empty set.
func NewSet() *Set { return &Set{} }

// Add appends a rendition.
func (s *Set) Add(r *Rendition) { s.renditions = append(s.renditions, r) }

// Renditions returns all renditions in insertion order.
func (s *Set) Renditions() []*Rendition { return s.renditions }

// Len returns the number of renditions.
func (s *Set) Len() int { return len(s.renditions) }

// filterClause is one accumulated filter: all values for the same
// category+field pair are alternatives.
type filterClause struct {
	category string
	field    string
	values   []string
}

// Filter applies a comma-separated filter expression and returns the
// matching renditions sorted by height then bitrate, both descending.
//
// Each clause has the form category:field:value. A two-part clause
// defaults the category to codec ("height:1080"), a one-part clause
// additionally defaults the field to type ("avc" means codec:type:avc).
// Clauses on the same field are alternatives (OR); distinct fields must
// all match (AND). Invalid clauses are dropped and reported in the
// returned error list; the remaining clauses still apply.
func (s *Set) Filter(expr string) ([]*Rendition, []error) {
	clauses, errs := s.parseFilters(expr)

	matched := s.renditions
	for _, clause := range clauses {
		var keep []*Rendition
		for _, r := range matched {
			if clauseMatches(r, clause) {
				keep = append(keep, r)
			}
		}
		matched = keep
	}

	sorted := make([]*Rendition, len(matched))
	copy(sorted, matched)
	sort.SliceStable(sorted, func(i, j int) bool {
		hi, hj := sortValue(sorted[i], "height"), sortValue(sorted[j], "height")
		if hi != hj {
			return hi > hj
		}
		return sortValue(sorted[i], "bitrate") > sortValue(sorted[j], "bitrate")
	})
	return sorted, errs
}

func (s *Set) parseFilters(expr string) ([]*filterClause, []error) {
	var clauses []*filterClause
	var errs []error

	knownFields := make(map[string]map[string]bool)
	fieldKnown := func(category, field string) bool {
		if _, ok := knownFields[category]; !ok {
			set := make(map[string]bool)
			for _, f := range CollectFields(s.renditions, category) {
				set[f] = true
			}
			knownFields[category] = set
		}
		return knownFields[category][field]
	}

	for _, raw := range strings.Split(expr, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		parts := strings.Split(raw, ":")
		if len(parts) == 1 {
			parts = append([]string{"type"}, parts...)
		}
		if len(parts) == 2 {
			parts = append([]string{"codec"}, parts...)
		}
		if len(parts) != 3 {
			errs = append(errs, apperr.New(apperr.ErrCodeInvalidFilter,
				"invalid filter %q - must be in the form category:field:value", raw))
			continue
		}

		category, field, value := parts[0], parts[1], parts[2]
		if !ValidCategory(category) {
			errs = append(errs, apperr.New(apperr.ErrCodeInvalidCategory,
				"invalid category %q", category))
			continue
		}
		if !fieldKnown(category, field) {
			errs = append(errs, apperr.New(apperr.ErrCodeInvalidField,
				"invalid field %q for category %q", field, category))
			continue
		}

		var existing *filterClause
		for _, c := range clauses {
			if c.category == category && c.field == field {
				existing = c
				break
			}
		}
		if existing != nil {
			existing.values = append(existing.values, value)
		} else {
			clauses = append(clauses, &filterClause{category: category, field: field, values: []string{value}})
		}
	}
	return clauses, errs
}

// DefaultGroupBy is the grouping spec used when none is given.
const DefaultGroupBy = "codec:type"

// GroupBy partitions renditions by the value of a category:field spec. A
// single-part spec defaults the category to codec. Renditions without the
// field land in the "n/a" group. Group names are returned in first-seen
// order.
func (s *Set) GroupBy(spec string) (map[string][]*Rendition, []string, error) {
	if spec == "" {
		spec = DefaultGroupBy
	}
	parts := strings.Split(spec, ":")
	if len(parts) == 1 {
		parts = append([]string{"codec"}, parts...)
	}
	if len(parts) != 2 {
		return nil, nil, apperr.New(apperr.ErrCodeInvalidFilter,
			"invalid group spec %q - must be in the form category:field", spec)
	}
	category, field := parts[0], parts[1]
	if !ValidCategory(category) {
		return nil, nil, apperr.New(apperr.ErrCodeInvalidCategory, "invalid category %q", category)
	}

	groups := make(map[string][]*Rendition)
	var order []string
	for _, r := range s.renditions {
		key := "n/a"
		if val, ok := r.ValueForField(category, field); ok && val != nil {
			if str := plainString(val); str != "" {
				key = str
			}
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}
	return groups, order, nil
}

// UniqueValuesForField returns the distinct non-empty values of a field
// across the set, in first-seen order.
func (s *Set) UniqueValuesForField(category, field string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, r := range s.renditions {
		val, ok := r.ValueForField(category, field)
		if !ok || val == nil {
			continue
		}
		str := plainString(val)
		if str == "" || seen[str] {
			continue
		}
		seen[str] = true
		values = append(values, str)
	}
	return values
}

func clauseMatches(r *Rendition, clause *filterClause) bool {
	val, ok := r.ValueForField(clause.category, clause.field)
	var str string
	if ok && val != nil {
		str = plainString(val)
	}
	for _, want := range clause.values {
		if str == want {
			return true
		}
	}
	return false
}

// sortValue extracts a numeric codec field for ordering. Renditions
// without the field (audio has no height) sort last.
func sortValue(r *Rendition, field string) float64 {
	val, ok := r.ValueForField("codec", field)
	if !ok {
		return math.Inf(-1)
	}
	switch v := val.(type) {
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case float64:
		return v
	default:
		return math.Inf(-1)
	}
}
