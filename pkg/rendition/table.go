package rendition

// Cell is one rendition's value for a field row.
type Cell struct {
	Value      string `json:"value"`
	Applicable bool   `json:"applicable"`
	Diff       bool   `json:"diff"`
	Group      int    `json:"group,omitempty"` // 1-based value-group index when two groups exist
}

// Row is one field compared across all renditions.
type Row struct {
	Category  string `json:"category"`
	Field     string `json:"field"`
	Highlight bool   `json:"highlight,omitempty"`
	Diff      bool   `json:"diff"`
	Cells     []Cell `json:"cells"`
}

// BuildTable produces the comparison rows for a rendition list, category by
// category in display order. When diffOnly is set, rows whose value is the
// same across every rendition are dropped.
func BuildTable(rends []*Rendition, diffOnly bool) []Row {
	var rows []Row
	for _, category := range Categories {
		rows = append(rows, buildCategoryRows(rends, category, diffOnly)...)
	}
	return rows
}

func buildCategoryRows(rends []*Rendition, category string, diffOnly bool) []Row {
	var rows []Row
	for _, field := range CollectFields(rends, category) {
		if Ignored(category, field) {
			continue
		}

		// distinct non-empty raw values decide whether the row differs
		var unique []string
		seen := make(map[string]bool)
		for _, r := range rends {
			val, ok := r.ValueForField(category, field)
			if !ok || val == nil {
				continue
			}
			s := plainString(val)
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			unique = append(unique, s)
		}

		diff := len(unique) > 1
		if !diff && diffOnly {
			continue
		}

		row := Row{
			Category:  category,
			Field:     field,
			Highlight: Highlighted(category, field),
			Diff:      diff,
			Cells:     make([]Cell, 0, len(rends)),
		}
		for _, r := range rends {
			val, ok := r.ValueForField(category, field)
			cell := Cell{
				Value:      Render(category, field, val, ok),
				Applicable: ok,
				Diff:       diff,
			}
			// with many renditions and exactly two value groups, tag the
			// group so both sides can be colored
			if len(rends) > 3 && len(unique) == 2 && ok && val != nil {
				s := plainString(val)
				for i, u := range unique {
					if u == s {
						cell.Group = i + 1
					}
				}
			}
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}
	return rows
}
